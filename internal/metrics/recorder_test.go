package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/integrators"
	"github.com/san-kum/astrodyn/internal/models"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	orbit := models.NewOrbit()
	alt := func(x dynamo.State, t float64) float64 { return models.Position(x).Norm() - 6378137.0 }

	rec, err := NewRecorder(reg, "orbit", orbit, alt)
	if err != nil {
		t.Fatal(err)
	}

	sim := dynamo.New(orbit, integrators.NewRK4(), nil)
	sim.AddObserver(rec)
	if _, err := sim.Run(context.Background(), orbit.DefaultState(), dynamo.Config{Dt: 10, Duration: 100}); err != nil {
		t.Fatal(err)
	}

	// Observers fire before each of the 10 steps.
	if got := testutil.ToFloat64(rec.steps); got != 9 {
		t.Errorf("steps_total = %v, want 9", got)
	}
	if got := testutil.ToFloat64(rec.simTime); math.Abs(got-90) > 1e-9 {
		t.Errorf("sim_time_seconds = %v, want 90", got)
	}
	if got := testutil.ToFloat64(rec.altitude); math.Abs(got-400e3) > 1e3 {
		t.Errorf("altitude_meters = %v, want about 400 km", got)
	}
	if got := testutil.ToFloat64(rec.energy); got >= 0 {
		t.Errorf("bound orbit energy = %v, want negative", got)
	}

	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("gathered %d series, want 6", n)
	}
}

func TestRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewRecorder(reg, "orbit", models.NewOrbit(), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRecorder(reg, "orbit", models.NewOrbit(), nil); err == nil {
		t.Error("second registration with the same labels should fail")
	}
}
