// Package coord defines the Cartesian and geodetic value types shared by the
// environment models.
//
// Positions and velocities are tagged by frame. [ECEF] and [ECI] carry
// distinct zero-size markers, so a Go conversion between them does not
// compile; an Earth-fixed vector becomes inertial only through a rotation in
// package frames. [Vec3] is the untagged arithmetic carrier underneath both.
package coord

import "math"

// Vec3 is a plain Cartesian 3-vector.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{k * v[0], k * v[1], k * v[2]}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

type (
	earthFixed struct{}
	inertial   struct{}
)

// ECEF is a vector expressed in the Earth-centered Earth-fixed frame.
type ECEF struct {
	_       earthFixed
	X, Y, Z float64
}

// Vec3 drops the frame tag.
func (r ECEF) Vec3() Vec3 { return Vec3{r.X, r.Y, r.Z} }

func (r ECEF) Norm() float64 { return r.Vec3().Norm() }

// ECEFFrom tags a raw vector as Earth-fixed.
func ECEFFrom(v Vec3) ECEF { return ECEF{X: v[0], Y: v[1], Z: v[2]} }

// ECI is a vector expressed in the Earth-centered inertial frame.
type ECI struct {
	_       inertial
	X, Y, Z float64
}

// Vec3 drops the frame tag.
func (r ECI) Vec3() Vec3 { return Vec3{r.X, r.Y, r.Z} }

func (r ECI) Norm() float64 { return r.Vec3().Norm() }

// ECIFrom tags a raw vector as inertial.
func ECIFrom(v Vec3) ECI { return ECI{X: v[0], Y: v[1], Z: v[2]} }

// ECEFState is a position/velocity pair in the Earth-fixed frame.
type ECEFState struct {
	R ECEF // m
	V ECEF // m/s, relative to the rotating frame
}

// ECIState is a position/velocity pair in the inertial frame.
type ECIState struct {
	R ECI // m
	V ECI // m/s
}

// Geodetic is a WGS84 geodetic position. Latitude and longitude ranges are
// not enforced.
type Geodetic struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64
}
