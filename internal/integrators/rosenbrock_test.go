package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/astrodyn/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// stiffDecay is dx/dt = -λx with an analytic Jacobian.
type stiffDecay struct {
	lambda float64
}

func (s *stiffDecay) StateDim() int   { return 1 }
func (s *stiffDecay) ControlDim() int { return 0 }
func (s *stiffDecay) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{-s.lambda * x[0]}
}
func (s *stiffDecay) Jacobian(x dynamo.State, u dynamo.Control, t float64, jac *mat.Dense) {
	jac.Set(0, 0, -s.lambda)
}

// jacobianOscillator is harmonicOscillator plus its Jacobian.
type jacobianOscillator struct{}

func (jacobianOscillator) StateDim() int   { return 2 }
func (jacobianOscillator) ControlDim() int { return 0 }
func (jacobianOscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}
func (jacobianOscillator) Jacobian(x dynamo.State, u dynamo.Control, t float64, jac *mat.Dense) {
	jac.Set(0, 1, 1)
	jac.Set(1, 0, -1)
}

func TestRosenbrock_StiffStability(t *testing.T) {
	dyn := &stiffDecay{lambda: 1000}
	dt := 0.01

	ros := NewRosenbrock()
	euler := NewEuler()
	xr := dynamo.State{1}
	xe := dynamo.State{1}
	for i := 0; i < 100; i++ {
		xr = ros.Step(dyn, xr, nil, float64(i)*dt, dt)
		xe = euler.Step(dyn, xe, nil, float64(i)*dt, dt)
	}

	if !xr.IsValid() || math.Abs(xr[0]) > 1e-6 {
		t.Errorf("Rosenbrock should damp the stiff mode, got %v", xr)
	}
	if math.Abs(xe[0]) < 1 {
		t.Errorf("explicit Euler at hλ=10 should diverge, got %v", xe)
	}
}

func TestRosenbrock_Accuracy(t *testing.T) {
	tests := []struct {
		name string
		dyn  dynamo.System
	}{
		{"analytic jacobian", jacobianOscillator{}},
		{"numeric jacobian", &harmonicOscillator{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ros := NewRosenbrock()
			x := dynamo.State{1, 0}
			dt := 0.01
			for i := 0; i < 100; i++ {
				x = ros.Step(tt.dyn, x, nil, float64(i)*dt, dt)
			}
			if math.Abs(x[0]-math.Cos(1)) > 5e-4 || math.Abs(x[1]+math.Sin(1)) > 5e-4 {
				t.Errorf("x(1) = %v, want [%v %v]", x, math.Cos(1), -math.Sin(1))
			}
		})
	}
}

func TestRosenbrock_SecondOrder(t *testing.T) {
	run := func(dt float64) float64 {
		ros := NewRosenbrock()
		x := dynamo.State{1, 0}
		steps := int(math.Round(1 / dt))
		for i := 0; i < steps; i++ {
			x = ros.Step(jacobianOscillator{}, x, nil, float64(i)*dt, dt)
		}
		return math.Hypot(x[0]-math.Cos(1), x[1]+math.Sin(1))
	}

	coarse, fine := run(0.02), run(0.01)
	ratio := coarse / fine
	if ratio < 3 || ratio > 5 {
		t.Errorf("halving dt reduced the error by %.2f, want about 4", ratio)
	}
}

func TestRosenbrock_AnalyticAndNumericAgree(t *testing.T) {
	a, b := NewRosenbrock(), NewRosenbrock()
	xa := dynamo.State{0.3, -0.8}
	xb := xa.Clone()
	for i := 0; i < 50; i++ {
		xa = a.Step(jacobianOscillator{}, xa, nil, 0, 0.05)
		xb = b.Step(&harmonicOscillator{}, xb, nil, 0, 0.05)
	}
	if math.Abs(xa[0]-xb[0]) > 1e-8 || math.Abs(xa[1]-xb[1]) > 1e-8 {
		t.Errorf("analytic %v vs numeric %v", xa, xb)
	}
}

func TestRosenbrock_ResizesScratch(t *testing.T) {
	ros := NewRosenbrock()
	ros.Step(&stiffDecay{lambda: 1}, dynamo.State{1}, nil, 0, 0.1)
	x := ros.Step(jacobianOscillator{}, dynamo.State{1, 0}, nil, 0, 0.1)
	if len(x) != 2 || !x.IsValid() {
		t.Errorf("step after a dimension change = %v", x)
	}
}
