package dynamo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Container owns the state vector of one System and advances it with an
// Integrator. Slot names are bound to indices once, at construction, in the
// order given. The state is copied in and out and never aliased.
//
// Get and Set panic for indices outside [0, Len()).
type Container struct {
	sys   System
	integ Integrator

	x  State
	x0 State
	u  Control
	t  float64

	names []string
	index map[string]int
}

// NewContainer builds a container starting from x0. If x0 is nil and the
// system implements Defaulter, its default state is used. Slot names label
// indices 0, 1, 2, ... and may cover a prefix of the state.
func NewContainer(sys System, integ Integrator, x0 State, slots ...string) (*Container, error) {
	n := sys.StateDim()
	if x0 == nil {
		if d, ok := sys.(Defaulter); ok {
			x0 = d.DefaultState()
		} else {
			x0 = make(State, n)
		}
	}
	if len(x0) != n {
		return nil, fmt.Errorf("%w: state has %d elements, system expects %d", ErrDimensionMismatch, len(x0), n)
	}
	if len(slots) > n {
		return nil, fmt.Errorf("%w: %d slot names for %d elements", ErrDimensionMismatch, len(slots), n)
	}

	index := make(map[string]int, len(slots))
	for i, name := range slots {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlot, name)
		}
		index[name] = i
	}

	return &Container{
		sys:   sys,
		integ: integ,
		x:     x0.Clone(),
		x0:    x0.Clone(),
		u:     make(Control, sys.ControlDim()),
		names: append([]string(nil), slots...),
		index: index,
	}, nil
}

func (c *Container) System() System         { return c.sys }
func (c *Container) Integrator() Integrator { return c.integ }
func (c *Container) Len() int               { return len(c.x) }
func (c *Container) Time() float64          { return c.t }
func (c *Container) SetTime(t float64)      { c.t = t }

func (c *Container) Get(i int) float64    { return c.x[i] }
func (c *Container) Set(i int, v float64) { c.x[i] = v }

// State returns a copy of the owned state vector.
func (c *Container) State() State { return c.x.Clone() }

// SetState replaces the owned state with a copy of x.
func (c *Container) SetState(x State) error {
	if len(x) != len(c.x) {
		return fmt.Errorf("%w: got %d elements, want %d", ErrDimensionMismatch, len(x), len(c.x))
	}
	copy(c.x, x)
	return nil
}

func (c *Container) Control() Control { return append(Control(nil), c.u...) }

func (c *Container) SetControl(u Control) error {
	if len(u) != len(c.u) {
		return fmt.Errorf("%w: got %d controls, want %d", ErrDimensionMismatch, len(u), len(c.u))
	}
	copy(c.u, u)
	return nil
}

// Derivative evaluates the system right-hand side at the current state.
func (c *Container) Derivative() State {
	return c.sys.Derive(c.x.Clone(), c.Control(), c.t)
}

// Jacobian returns ∂f/∂x at the current state, analytic when the system
// provides one and central finite differences otherwise.
func (c *Container) Jacobian() *mat.Dense {
	n := len(c.x)
	jac := mat.NewDense(n, n, nil)
	if js, ok := c.sys.(JacobianSystem); ok {
		js.Jacobian(c.x.Clone(), c.Control(), c.t, jac)
		return jac
	}
	NumericJacobian(c.sys, c.x, c.u, c.t, jac)
	return jac
}

// Step advances the state by dt with the container's integrator. The new
// state is committed even when it holds NaN or Inf; check IsValid.
func (c *Container) Step(dt float64) {
	c.x = c.integ.Step(c.sys, c.x.Clone(), c.Control(), c.t, dt)
	c.t += dt
}

func (c *Container) IsValid() bool { return c.x.IsValid() }

// Reset restores the initial state, zero control and t = 0. Models that
// implement Resetter also return to their default parameters.
func (c *Container) Reset() {
	if r, ok := c.sys.(Resetter); ok {
		r.Reset()
	}
	copy(c.x, c.x0)
	for i := range c.u {
		c.u[i] = 0
	}
	c.t = 0
}

// Slots returns the declared slot names in index order.
func (c *Container) Slots() []string { return append([]string(nil), c.names...) }

// Slot looks up a named view.
func (c *Container) Slot(name string) (Slot, error) {
	i, ok := c.index[name]
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	return Slot{name: name, index: i, c: c}, nil
}

// MustSlot is Slot for names known at compile time.
func (c *Container) MustSlot(name string) Slot {
	s, err := c.Slot(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Slot is a named accessor pair over one element of a Container's state.
type Slot struct {
	name  string
	index int
	c     *Container
}

func (s Slot) Name() string        { return s.name }
func (s Slot) Index() int          { return s.index }
func (s Slot) Get() float64        { return s.c.x[s.index] }
func (s Slot) Set(v float64)       { s.c.x[s.index] = v }
func (s Slot) Derivative() float64 { return s.c.Derivative()[s.index] }
