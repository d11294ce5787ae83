package coord

import (
	"math"
	"reflect"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestVec3_Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	if got := x.Cross(y); got != (Vec3{0, 0, 1}) {
		t.Errorf("x cross y = %v, want z", got)
	}
	if got := y.Cross(x); got != (Vec3{0, 0, -1}) {
		t.Errorf("y cross x = %v, want -z", got)
	}
}

func TestVec3_Norm(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected float64
	}{
		{Vec3{3, 4, 0}, 5},
		{Vec3{0, 0, 0}, 0},
		{Vec3{1, 1, 1}, math.Sqrt(3)},
	}
	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestFrameTagging(t *testing.T) {
	v := Vec3{1, 2, 3}
	if ECEFFrom(v).Vec3() != v {
		t.Error("ECEF tag round trip changed the vector")
	}
	if ECIFrom(v).Vec3() != v {
		t.Error("ECI tag round trip changed the vector")
	}
	if ECEFFrom(v).Norm() != v.Norm() || ECIFrom(v).Norm() != v.Norm() {
		t.Error("tagged norm differs from raw norm")
	}
}

func TestFrameTypes_NotConvertible(t *testing.T) {
	ecef := reflect.TypeOf(ECEF{})
	eci := reflect.TypeOf(ECI{})

	if ecef.ConvertibleTo(eci) {
		t.Error("ECEF converts to ECI without a rotation")
	}
	if eci.ConvertibleTo(ecef) {
		t.Error("ECI converts to ECEF without a rotation")
	}
}
