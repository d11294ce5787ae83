package models

import (
	"fmt"
	"math"

	"github.com/san-kum/astrodyn/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

const DefaultCutOffFrequency = 1.0

// Slot indices of FirstOrderLag.
const (
	LagOutput = iota
	LagInput
)

// LagSlots names the FirstOrderLag state elements in index order.
var LagSlots = []string{"output", "input"}

// FirstOrderLag is the low-pass element y' = (u − y)/τ with τ = 1/(2π·fc).
// The input is held in the state with zero derivative so that a host can
// set it between steps through the container.
type FirstOrderLag struct {
	CutOffFrequency float64
}

func NewFirstOrderLag() *FirstOrderLag {
	return &FirstOrderLag{CutOffFrequency: DefaultCutOffFrequency}
}

func (l *FirstOrderLag) Reset() { l.CutOffFrequency = DefaultCutOffFrequency }

func (l *FirstOrderLag) TimeConstant() float64 {
	return 1 / (2 * math.Pi * l.CutOffFrequency)
}

func (l *FirstOrderLag) StateDim() int   { return 2 }
func (l *FirstOrderLag) ControlDim() int { return 0 }

func (l *FirstOrderLag) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	tau := l.TimeConstant()
	return dynamo.State{(x[LagInput] - x[LagOutput]) / tau, 0}
}

func (l *FirstOrderLag) Jacobian(x dynamo.State, u dynamo.Control, t float64, jac *mat.Dense) {
	tau := l.TimeConstant()
	jac.Set(0, 0, -1/tau)
	jac.Set(0, 1, 1/tau)
	jac.Set(1, 0, 0)
	jac.Set(1, 1, 0)
}

// StepResponse is the analytic output at time t for a unit step applied at
// t = 0 from rest.
func (l *FirstOrderLag) StepResponse(t float64) float64 {
	return 1 - math.Exp(-t/l.TimeConstant())
}

func (l *FirstOrderLag) GetParams() map[string]float64 {
	return map[string]float64{"cutoff": l.CutOffFrequency}
}

func (l *FirstOrderLag) SetParam(name string, value float64) error {
	switch name {
	case "cutoff":
		if value <= 0 {
			return fmt.Errorf("%w: cutoff %g", dynamo.ErrParameterBounds, value)
		}
		l.CutOffFrequency = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Lag couples a FirstOrderLag to its own container and exposes the
// input and output slots as accessor pairs.
type Lag struct {
	*dynamo.Container
	input  dynamo.Slot
	output dynamo.Slot
}

func NewLag(sys *FirstOrderLag, integ dynamo.Integrator) (*Lag, error) {
	c, err := dynamo.NewContainer(sys, integ, nil, LagSlots...)
	if err != nil {
		return nil, err
	}
	return &Lag{
		Container: c,
		input:     c.MustSlot("input"),
		output:    c.MustSlot("output"),
	}, nil
}

func (l *Lag) SetInput(v float64)  { l.input.Set(v) }
func (l *Lag) GetInput() float64   { return l.input.Get() }
func (l *Lag) SetOutput(v float64) { l.output.Set(v) }
func (l *Lag) GetOutput() float64  { return l.output.Get() }
