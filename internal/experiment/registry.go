package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/astrodyn/internal/control"
	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/integrators"
	"github.com/san-kum/astrodyn/internal/metrics"
	"github.com/san-kum/astrodyn/internal/models"
)

// Altimeter is implemented by models that can report a geodetic altitude.
type Altimeter interface {
	AltitudeAt(x dynamo.State, t float64) float64
}

type Registry struct {
	models      map[string]func() dynamo.System
	slots       map[string][]string
	integrators map[string]func() dynamo.Integrator
	controllers map[string]func(map[string]float64) dynamo.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() dynamo.System),
		slots:       make(map[string][]string),
		integrators: make(map[string]func() dynamo.Integrator),
		controllers: make(map[string]func(map[string]float64) dynamo.Controller),
	}

	r.models["orbit"] = func() dynamo.System { return models.NewOrbit() }
	r.models["earth3dof"] = func() dynamo.System { return models.NewRotatingEarth3DoF() }
	r.models["lag"] = func() dynamo.System { return models.NewFirstOrderLag() }

	r.slots["orbit"] = models.OrbitSlots
	r.slots["earth3dof"] = models.OrbitSlots
	r.slots["lag"] = models.LagSlots

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }
	r.integrators["rosenbrock"] = func() dynamo.Integrator { return integrators.NewRosenbrock() }

	r.controllers["none"] = func(params map[string]float64) dynamo.Controller {
		return control.NewNone(int(params["dim"]))
	}
	r.controllers["constant"] = func(params map[string]float64) dynamo.Controller {
		u := []float64{params["ux"], params["uy"], params["uz"]}
		dim := int(params["dim"])
		if dim < len(u) {
			u = u[:dim]
		}
		return control.NewConstant(u...)
	}
	r.controllers["prograde"] = func(params map[string]float64) dynamo.Controller {
		return control.NewPrograde(params["magnitude"], params["start"], params["stop"])
	}

	return r
}

func (r *Registry) GetModel(name string) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, params map[string]float64) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	if name == "prograde" && params["dim"] < 3 {
		return nil, fmt.Errorf("%w: prograde needs a 3-axis control", dynamo.ErrDimensionMismatch)
	}
	return fn(params), nil
}

// Slots returns the state element names of a model, or nil.
func (r *Registry) Slots(model string) []string {
	return r.slots[model]
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListControllers() []string {
	return sortedKeys(r.controllers)
}

// DefaultMetrics returns fresh metrics suited to dyn. Energy metrics are only
// added for systems with an energy, altitude metrics for those with an
// altitude, and delta-v for those whose control is an acceleration.
func (r *Registry) DefaultMetrics(model string, dyn dynamo.System) []dynamo.Metric {
	var ms []dynamo.Metric
	if _, ok := dyn.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(dyn), metrics.NewEnergyDrift(dyn))
	}
	if a, ok := dyn.(Altimeter); ok {
		ms = append(ms, metrics.NewMinAltitude(a.AltitudeAt))
	}
	if model == "orbit" {
		ms = append(ms, metrics.NewDeltaV())
	}
	return ms
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
