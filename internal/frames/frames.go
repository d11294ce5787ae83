// Package frames converts between geodetic, Earth-fixed and inertial
// coordinates.
//
// The Earth-fixed to inertial rotation is a single rotation about the polar
// axis by θ = ω·t, where t is the elapsed time in seconds since the epoch at
// which both frames coincide and ω is the mean rotation rate 2π/86400 rad/s.
// Precession, nutation and polar motion are not modelled.
//
// All functions are pure and perform no range validation.
package frames

import (
	"math"

	"github.com/san-kum/astrodyn/internal/coord"
	"gonum.org/v1/gonum/mat"
)

const (
	// SemiMajorAxis is the WGS84 equatorial radius, m.
	SemiMajorAxis = 6378137.0
	// Eccentricity is the WGS84 first eccentricity.
	Eccentricity = 0.081819190842622
	// EarthRate is the mean Earth rotation rate used by the ECEF/ECI rotation, rad/s.
	EarthRate = 2 * math.Pi / 86400.0

	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi

	e2 = Eccentricity * Eccentricity
)

// SemiMinorAxis is the WGS84 polar radius, m.
var SemiMinorAxis = SemiMajorAxis * math.Sqrt(1-e2)

// PrimeVerticalRadius returns N, the radius of curvature in the prime
// vertical at the given geodetic latitude in radians.
func PrimeVerticalRadius(latRad float64) float64 {
	s := math.Sin(latRad)
	return SemiMajorAxis / math.Sqrt(1-e2*s*s)
}

// GeodeticToECEF converts a WGS84 geodetic position to Earth-fixed Cartesian
// coordinates. Negative altitudes are allowed.
func GeodeticToECEF(g coord.Geodetic) coord.ECEF {
	lat := g.LatitudeDeg * deg2rad
	lon := g.LongitudeDeg * deg2rad

	sLat, cLat := math.Sincos(lat)
	sLon, cLon := math.Sincos(lon)
	n := PrimeVerticalRadius(lat)

	return coord.ECEF{
		X: (n + g.AltitudeM) * cLat * cLon,
		Y: (n + g.AltitudeM) * cLat * sLon,
		Z: ((1-e2)*n + g.AltitudeM) * sLat,
	}
}

// ECEFToGeodetic inverts GeodeticToECEF by fixed-point iteration on the
// latitude. It converges below a millimetre within a handful of iterations
// for any point outside the Earth's core.
func ECEFToGeodetic(r coord.ECEF) coord.Geodetic {
	const (
		maxIter = 20
		tol     = 1e-13 // rad, about 0.6 µm on the surface
	)

	p := math.Hypot(r.X, r.Y)
	lon := math.Atan2(r.Y, r.X)
	lat := math.Atan2(r.Z, p*(1-e2))

	var h float64
	for i := 0; i < maxIter; i++ {
		n := PrimeVerticalRadius(lat)
		s, c := math.Sincos(lat)
		h = p*c + r.Z*s - SemiMajorAxis*math.Sqrt(1-e2*s*s)
		next := math.Atan2(r.Z, p*(1-e2*n/(n+h)))
		if math.Abs(next-lat) < tol {
			lat = next
			break
		}
		lat = next
	}
	s, c := math.Sincos(lat)
	h = p*c + r.Z*s - SemiMajorAxis*math.Sqrt(1-e2*s*s)

	return coord.Geodetic{
		LatitudeDeg:  lat * rad2deg,
		LongitudeDeg: lon * rad2deg,
		AltitudeM:    h,
	}
}

// GeocentricRadius returns the distance from the Earth's centre to the
// ellipsoid surface at the given geodetic latitude in degrees.
func GeocentricRadius(latDeg float64) float64 {
	s, c := math.Sincos(latDeg * deg2rad)
	a, b := SemiMajorAxis, SemiMinorAxis
	num := (a*a*c)*(a*a*c) + (b*b*s)*(b*b*s)
	den := (a*c)*(a*c) + (b*s)*(b*s)
	return math.Sqrt(num / den)
}

// RotationAngle returns θ = ω·t for an elapsed time in seconds.
func RotationAngle(t float64) float64 {
	return EarthRate * t
}

// R3 is the rotation about the third axis that takes Earth-fixed
// coordinates to inertial coordinates at angle theta.
func R3(theta float64) *mat.Dense {
	s, c := math.Sincos(theta)
	return mat.NewDense(3, 3, []float64{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	})
}

// R3Dot is the time derivative of R3(ω·t), i.e. ω·dR3/dθ.
func R3Dot(theta, omega float64) *mat.Dense {
	s, c := math.Sincos(theta)
	return mat.NewDense(3, 3, []float64{
		-omega * s, omega * c, 0,
		-omega * c, -omega * s, 0,
		0, 0, 0,
	})
}

// ECEFToECI rotates an Earth-fixed position into the inertial frame after t
// seconds of Earth rotation. ECEFToECI(r, 0) is the identity.
func ECEFToECI(r coord.ECEF, t float64) coord.ECI {
	sin, cos := math.Sincos(RotationAngle(t))
	return coord.ECIFrom(rotate(sin, cos, r.Vec3()))
}

// ECEFToECIWithVelocity rotates position and velocity. The inertial velocity
// includes the transport term of the rotating frame: v_i = R·v_e + Ṙ·r_e.
func ECEFToECIWithVelocity(s coord.ECEFState, t float64) coord.ECIState {
	sin, cos := math.Sincos(RotationAngle(t))

	v := rotate(sin, cos, s.V.Vec3()).Add(rotateDot(sin, cos, s.R.Vec3()))
	return coord.ECIState{
		R: coord.ECIFrom(rotate(sin, cos, s.R.Vec3())),
		V: coord.ECIFrom(v),
	}
}

// ECIToECEF is the exact inverse of ECEFToECI.
func ECIToECEF(r coord.ECI, t float64) coord.ECEF {
	sin, cos := math.Sincos(RotationAngle(t))
	return coord.ECEFFrom(rotateT(sin, cos, r.Vec3()))
}

// ECIToECEFWithVelocity is the exact inverse of ECEFToECIWithVelocity:
// r_e = Rᵀ·r_i and v_e = Rᵀ·(v_i − Ṙ·r_e).
func ECIToECEFWithVelocity(s coord.ECIState, t float64) coord.ECEFState {
	sin, cos := math.Sincos(RotationAngle(t))

	re := rotateT(sin, cos, s.R.Vec3())
	ve := rotateT(sin, cos, s.V.Vec3().Sub(rotateDot(sin, cos, re)))
	return coord.ECEFState{R: coord.ECEFFrom(re), V: coord.ECEFFrom(ve)}
}

// rotate, rotateT and rotateDot apply R3, its transpose and R3Dot(θ, EarthRate)
// without building matrices; the models call them on every derivative.
func rotate(sin, cos float64, v coord.Vec3) coord.Vec3 {
	return coord.Vec3{cos*v[0] + sin*v[1], -sin*v[0] + cos*v[1], v[2]}
}

func rotateT(sin, cos float64, v coord.Vec3) coord.Vec3 {
	return coord.Vec3{cos*v[0] - sin*v[1], sin*v[0] + cos*v[1], v[2]}
}

func rotateDot(sin, cos float64, v coord.Vec3) coord.Vec3 {
	return coord.Vec3{
		EarthRate * (-sin*v[0] + cos*v[1]),
		EarthRate * (-cos*v[0] - sin*v[1]),
		0,
	}
}
