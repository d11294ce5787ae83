package dynamo

import "gonum.org/v1/gonum/mat"

// decay is dx/dt = -k·x + u.
type decay struct {
	k float64
}

func (d *decay) Derive(x State, u Control, t float64) State {
	dx := make(State, len(x))
	for i := range x {
		dx[i] = -d.k * x[i]
	}
	if len(u) > 0 {
		dx[0] += u[0]
	}
	return dx
}

func (d *decay) StateDim() int   { return 1 }
func (d *decay) ControlDim() int { return 1 }

// oscillator is a unit harmonic oscillator with an analytic Jacobian.
type oscillator struct {
	resets int
}

func (o *oscillator) Derive(x State, u Control, t float64) State {
	return State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int   { return 2 }
func (o *oscillator) ControlDim() int { return 0 }

func (o *oscillator) Jacobian(x State, u Control, t float64, jac *mat.Dense) {
	jac.Set(0, 0, 0)
	jac.Set(0, 1, 1)
	jac.Set(1, 0, -1)
	jac.Set(1, 1, 0)
}

func (o *oscillator) Energy(x State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func (o *oscillator) DefaultState() State { return State{1, 0} }
func (o *oscillator) Reset()              { o.resets++ }

// nonlinear has a state-dependent Jacobian and no analytic one.
type nonlinear struct{}

func (nonlinear) Derive(x State, u Control, t float64) State {
	return State{x[0] * x[1], x[0]*x[0] - 3*x[1]}
}

func (nonlinear) StateDim() int   { return 2 }
func (nonlinear) ControlDim() int { return 0 }

type eulerStep struct{}

func (eulerStep) Step(dyn System, x State, u Control, t float64, dt float64) State {
	dx := dyn.Derive(x, u, t)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

type midpointStep struct{}

func (midpointStep) Step(dyn System, x State, u Control, t float64, dt float64) State {
	k1 := dyn.Derive(x, u, t)
	mid := x.Add(k1.Scale(dt / 2))
	k2 := dyn.Derive(mid, u, t+dt/2)
	return x.Add(k2.Scale(dt))
}

type constController struct {
	u Control
}

func (c constController) Compute(x State, t float64) Control { return c.u }
