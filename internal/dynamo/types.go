package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

type Control []float64

// System is the right-hand side dx/dt = f(x, u, t) of an ODE. Derive must
// not mutate x or any shared state, and must return a fresh vector of length
// StateDim. Indexing past StateDim is a programming error and panics.
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// JacobianSystem is a System with an analytic Jacobian ∂f/∂x. Jacobian
// writes into jac, which is StateDim×StateDim.
type JacobianSystem interface {
	System
	Jacobian(x State, u Control, t float64, jac *mat.Dense)
}

// Defaulter reports the state a model starts from after a reset.
type Defaulter interface {
	DefaultState() State
}

// Resetter restores a model's parameters to their documented defaults.
type Resetter interface {
	Reset()
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// AdaptiveIntegrator takes one accepted step starting from a trial dt. It
// returns the new state, the dt actually used and a suggestion for the next
// step.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt, tol float64) (next State, used, suggested float64, err error)
}

type Controller interface {
	Compute(x State, t float64) Control
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	Start         float64
	Seed          int64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0,
		Duration:      5400.0,
		Tolerance:     1e-9,
		MaxDt:         60.0,
		MinDt:         1e-6,
		Adaptive:      false,
		ValidateState: true,
	}
}

type Result struct {
	States      []State
	Controls    []Control
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Final returns the last recorded state and its time.
func (r *Result) Final() (State, float64) {
	if len(r.States) == 0 {
		return nil, 0
	}
	return r.States[len(r.States)-1], r.Times[len(r.Times)-1]
}
