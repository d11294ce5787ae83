package integrators

import "github.com/san-kum/astrodyn/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method with the control held
// over the step. Stage buffers are reused between steps, so an RK4 must not
// be shared between goroutines.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	if len(r.scratch) != n {
		for i := range r.k {
			r.k[i] = make(dynamo.State, n)
		}
		r.scratch = make(dynamo.State, n)
	}

	h := 0.5 * dt
	copy(r.k[0], dyn.Derive(x, u, t))
	copy(r.k[1], dyn.Derive(axpy(r.scratch, x, r.k[0], h), u, t+h))
	copy(r.k[2], dyn.Derive(axpy(r.scratch, x, r.k[1], h), u, t+h))
	copy(r.k[3], dyn.Derive(axpy(r.scratch, x, r.k[2], dt), u, t+dt))

	next := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := range next {
		next[i] = x[i] + dt6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}

// axpy writes x + h·k into dst and returns it.
func axpy(dst, x, k dynamo.State, h float64) dynamo.State {
	for i := range x {
		dst[i] = x[i] + h*k[i]
	}
	return dst
}
