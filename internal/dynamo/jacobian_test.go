package dynamo

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNumericJacobian_MatchesAnalytic(t *testing.T) {
	sys := &oscillator{}
	x := State{0.4, -1.3}

	analytic := mat.NewDense(2, 2, nil)
	sys.Jacobian(x, nil, 0, analytic)

	numeric := mat.NewDense(2, 2, nil)
	NumericJacobian(sys, x, nil, 0, numeric)

	if !mat.EqualApprox(analytic, numeric, 1e-8) {
		t.Errorf("numeric = %v, analytic = %v", mat.Formatted(numeric), mat.Formatted(analytic))
	}
}

func TestNumericJacobian_LargeState(t *testing.T) {
	// x scaled like orbital positions in metres.
	x := State{7e6, 1e3}
	jac := mat.NewDense(2, 2, nil)
	NumericJacobian(nonlinear{}, x, nil, 0, jac)

	want := mat.NewDense(2, 2, []float64{1e3, 7e6, 1.4e7, -3})
	if !mat.EqualApprox(jac, want, 1e-3) {
		t.Errorf("Jacobian = %v, want %v", mat.Formatted(jac), mat.Formatted(want))
	}
}

func TestNumericJacobian_DoesNotMutateState(t *testing.T) {
	x := State{2, 3}
	NumericJacobian(nonlinear{}, x, nil, 0, mat.NewDense(2, 2, nil))
	if x[0] != 2 || x[1] != 3 {
		t.Errorf("state mutated to %v", x)
	}
}
