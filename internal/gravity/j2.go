// Package gravity evaluates Earth's gravitational acceleration including the
// J2 oblateness term.
//
// Positions are inertial Cartesian coordinates in metres. The origin is a
// singularity: callers must never pass a zero-length position. No guard is
// applied and the result for r = 0 is NaN or Inf.
package gravity

import (
	"math"

	"github.com/san-kum/astrodyn/internal/coord"
)

const (
	// GM is Earth's gravitational parameter, m³/s².
	GM = 3.986004418e14
	// Re is Earth's equatorial radius, m.
	Re = 6378137.0
	// J2 is the second zonal harmonic coefficient.
	J2 = 1.08262668e-3
)

// Acceleration returns the J2 gravitational acceleration in m/s² at the
// inertial position (x, y, z). The oblateness correction multiplies the
// point-mass term by the dimensionless k = 1.5·J2·(Re/r)², so at the
// equator the field is stronger than GM/r² by the factor 1 + k.
func Acceleration(x, y, z float64) (ax, ay, az float64) {
	r2 := x*x + y*y + z*z
	r := math.Sqrt(r2)

	factor := GM / (r2 * r)
	k := 1.5 * J2 * Re * Re / r2
	zz := 5 * z * z / r2

	ax = -factor * x * (1 - k*(zz-1))
	ay = -factor * y * (1 - k*(zz-1))
	az = -factor * z * (1 - k*(zz-3))
	return
}

// AccelerationECI is Acceleration on a frame-tagged position.
func AccelerationECI(r coord.ECI) coord.ECI {
	ax, ay, az := Acceleration(r.X, r.Y, r.Z)
	return coord.ECI{X: ax, Y: ay, Z: az}
}

// PointMass returns the Keplerian acceleration without the J2 term.
func PointMass(x, y, z float64) (ax, ay, az float64) {
	r2 := x*x + y*y + z*z
	factor := -GM / (r2 * math.Sqrt(r2))
	return factor * x, factor * y, factor * z
}

// Potential returns the specific gravitational potential energy (J/kg) of
// the J2 field, negative everywhere outside the origin.
func Potential(x, y, z float64) float64 {
	r2 := x*x + y*y + z*z
	r := math.Sqrt(r2)
	sinLat2 := z * z / r2
	return -GM / r * (1 - J2*(Re*Re/r2)*(1.5*sinLat2-0.5))
}
