package experiment

import (
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/models"
)

func TestRegistry_Lists(t *testing.T) {
	r := NewRegistry()

	if got, want := r.ListModels(), []string{"earth3dof", "lag", "orbit"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListModels() = %v, want %v", got, want)
	}
	if got, want := r.ListControllers(), []string{"constant", "none", "prograde"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListControllers() = %v, want %v", got, want)
	}
	if got := r.ListIntegrators(); len(got) != 6 {
		t.Errorf("expected 6 integrators, got %v", got)
	}
}

func TestRegistry_BuildsEverything(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.ListModels() {
		dyn, err := r.GetModel(name)
		if err != nil {
			t.Fatalf("model %s: %v", name, err)
		}
		if got := len(r.Slots(name)); got != dyn.StateDim() {
			t.Errorf("model %s: %d slots for %d states", name, got, dyn.StateDim())
		}
	}
	for _, name := range r.ListIntegrators() {
		if _, err := r.GetIntegrator(name); err != nil {
			t.Errorf("integrator %s: %v", name, err)
		}
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetModel("pendulum"); err == nil {
		t.Error("expected error for unknown model")
	}
	if _, err := r.GetIntegrator("gauss-jackson"); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if _, err := r.GetController("lqr", nil); err == nil {
		t.Error("expected error for unknown controller")
	}
}

func TestRegistry_Controllers(t *testing.T) {
	r := NewRegistry()

	ctrl, err := r.GetController("constant", map[string]float64{"dim": 3, "ux": 1, "uy": 2, "uz": 3})
	if err != nil {
		t.Fatal(err)
	}
	if u := ctrl.Compute(nil, 0); !reflect.DeepEqual(u, dynamo.Control{1, 2, 3}) {
		t.Errorf("constant control = %v", u)
	}

	ctrl, err = r.GetController("constant", map[string]float64{"dim": 0, "ux": 1})
	if err != nil {
		t.Fatal(err)
	}
	if u := ctrl.Compute(nil, 0); len(u) != 0 {
		t.Errorf("constant control for a 0-dim system = %v", u)
	}

	if _, err := r.GetController("prograde", map[string]float64{"dim": 0}); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("prograde on a 0-dim system: got %v, want ErrDimensionMismatch", err)
	}
}

func TestRegistry_DefaultMetrics(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		model string
		want  []string
	}{
		{"orbit", []string{"energy", "energy_drift", "min_altitude", "delta_v"}},
		{"earth3dof", []string{"energy", "energy_drift", "min_altitude"}},
		{"lag", nil},
	}

	for _, tt := range tests {
		dyn, _ := r.GetModel(tt.model)
		var names []string
		for _, m := range r.DefaultMetrics(tt.model, dyn) {
			names = append(names, m.Name())
		}
		if !reflect.DeepEqual(names, tt.want) {
			t.Errorf("%s metrics = %v, want %v", tt.model, names, tt.want)
		}
	}
}

func TestAltimeter(t *testing.T) {
	var _ Altimeter = models.NewOrbit()
	var _ Altimeter = models.NewRotatingEarth3DoF()
}
