package integrators

import (
	"math"

	"github.com/san-kum/astrodyn/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Rosenbrock is the two-stage, second-order, L-stable ROS2 scheme:
//
//	(I − γhJ)·k1 = f(t, x)
//	(I − γhJ)·k2 = f(t+h, x + h·k1) − 2·k1
//	x' = x + 3/2·h·k1 + 1/2·h·k2
//
// with γ = 1 + 1/√2. J is the analytic Jacobian when the system implements
// dynamo.JacobianSystem and a central-difference estimate otherwise. The
// explicit time derivative ∂f/∂t is neglected.
type Rosenbrock struct {
	gamma float64
	jac   *mat.Dense
	lhs   *mat.Dense
}

func NewRosenbrock() *Rosenbrock {
	return &Rosenbrock{gamma: 1 + 1/math.Sqrt2}
}

func (r *Rosenbrock) ensureScratch(n int) {
	if r.jac == nil || r.jac.RawMatrix().Rows != n {
		r.jac = mat.NewDense(n, n, nil)
		r.lhs = mat.NewDense(n, n, nil)
	}
}

// Step returns a state filled with NaN when I − γhJ is singular.
func (r *Rosenbrock) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	if js, ok := dyn.(dynamo.JacobianSystem); ok {
		r.jac.Zero()
		js.Jacobian(x, u, t, r.jac)
	} else {
		dynamo.NumericJacobian(dyn, x, u, t, r.jac)
	}

	r.lhs.Scale(-r.gamma*dt, r.jac)
	for i := 0; i < n; i++ {
		r.lhs.Set(i, i, r.lhs.At(i, i)+1)
	}

	var lu mat.LU
	lu.Factorize(r.lhs)

	f1 := dyn.Derive(x, u, t)
	var k1 mat.VecDense
	if err := lu.SolveVecTo(&k1, false, mat.NewVecDense(n, f1)); err != nil {
		return invalid(n)
	}

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*k1.AtVec(i)
	}
	f2 := dyn.Derive(x2, u, t+dt)
	for i := 0; i < n; i++ {
		f2[i] -= 2 * k1.AtVec(i)
	}
	var k2 mat.VecDense
	if err := lu.SolveVecTo(&k2, false, mat.NewVecDense(n, f2)); err != nil {
		return invalid(n)
	}

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt*(1.5*k1.AtVec(i)+0.5*k2.AtVec(i))
	}
	return result
}

func invalid(n int) dynamo.State {
	s := make(dynamo.State, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
