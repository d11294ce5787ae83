package dynamo

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// NumericJacobian fills jac with a central-difference approximation of
// ∂f/∂x. The step scales with the state norm so that metre-sized positions
// and unit-sized states are both resolved.
func NumericJacobian(sys System, x State, u Control, t float64, jac *mat.Dense) {
	fd.Jacobian(jac, func(y, xs []float64) {
		copy(y, sys.Derive(State(xs), u, t))
	}, x, &fd.JacobianSettings{
		Formula: fd.Central,
		Step:    1e-6 * math.Max(1, x.Norm()),
	})
}
