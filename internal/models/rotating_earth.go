package models

import (
	"fmt"
	"math"

	"github.com/san-kum/astrodyn/internal/atmosphere"
	"github.com/san-kum/astrodyn/internal/coord"
	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/frames"
	"github.com/san-kum/astrodyn/internal/gravity"
)

const (
	DefaultVehicleMass     = 1.0
	DefaultDragCoefficient = 2.2
	DefaultReferenceArea   = 0.01
)

// RotatingEarth3DoF is a fixed-mass point vehicle over the rotating WGS84
// Earth. The state is [x y z vx vy vz] in ECI and t is the elapsed time
// since the ECEF and ECI frames coincided. Forces are J2 gravity, drag
// against an atmosphere co-rotating with the Earth, and the control vector
// as an applied force in ECI, N.
//
// Above the atmosphere ceiling drag is zero. Below the ellipsoid the density
// is NaN, so the state turns invalid once the vehicle reaches the ground.
type RotatingEarth3DoF struct {
	Mass            float64
	DragCoefficient float64
	ReferenceArea   float64

	// Launch site and initial velocity relative to the ground, NEU frame.
	Origin         coord.Geodetic
	GroundVelocity [3]float64
}

func NewRotatingEarth3DoF() *RotatingEarth3DoF {
	m := &RotatingEarth3DoF{}
	m.Reset()
	return m
}

// Reset restores mass 1 kg, Cd 2.2, area 0.01 m² and a launch site at
// latitude, longitude and altitude 0, at rest on the ground.
func (m *RotatingEarth3DoF) Reset() {
	m.Mass = DefaultVehicleMass
	m.DragCoefficient = DefaultDragCoefficient
	m.ReferenceArea = DefaultReferenceArea
	m.Origin = coord.Geodetic{}
	m.GroundVelocity = [3]float64{}
}

func (m *RotatingEarth3DoF) StateDim() int   { return 6 }
func (m *RotatingEarth3DoF) ControlDim() int { return 3 }

func (m *RotatingEarth3DoF) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	r := Position(x)
	v := Velocity(x)

	a := gravity.AccelerationECI(r).Vec3()
	a = a.Add(m.DragAcceleration(r, v, t).Vec3())
	if len(u) >= 3 {
		a = a.Add(coord.Vec3{u[0], u[1], u[2]}.Scale(1 / m.Mass))
	}

	return dynamo.State{v.X, v.Y, v.Z, a[0], a[1], a[2]}
}

// DragAcceleration returns −½·ρ·Cd·A/m·|v_rel|·v_rel where v_rel is the
// velocity relative to the co-rotating atmosphere.
func (m *RotatingEarth3DoF) DragAcceleration(r, v coord.ECI, t float64) coord.ECI {
	ecef := frames.ECIToECEF(r, t)
	alt := frames.ECEFToGeodetic(ecef).AltitudeM
	if alt > atmosphere.Ceiling {
		return coord.ECI{}
	}
	rho := atmosphere.Density(alt)

	wind := frames.ECEFToECIWithVelocity(coord.ECEFState{R: ecef}, t).V
	rel := v.Vec3().Sub(wind.Vec3())
	k := -0.5 * rho * m.DragCoefficient * m.ReferenceArea / m.Mass * rel.Norm()
	return coord.ECIFrom(rel.Scale(k))
}

// AltitudeAt returns the geodetic altitude of an ECI state at time t.
func (m *RotatingEarth3DoF) AltitudeAt(x dynamo.State, t float64) float64 {
	return frames.ECEFToGeodetic(frames.ECIToECEF(Position(x), t)).AltitudeM
}

// DefaultState places the vehicle at Origin with GroundVelocity (north,
// east, up) relative to the rotating Earth, expressed in ECI at t = 0.
func (m *RotatingEarth3DoF) DefaultState() dynamo.State {
	r := frames.GeodeticToECEF(m.Origin)
	v := neuToECEF(m.Origin, m.GroundVelocity)
	s := frames.ECEFToECIWithVelocity(coord.ECEFState{R: r, V: coord.ECEFFrom(v)}, 0)
	return dynamo.State{s.R.X, s.R.Y, s.R.Z, s.V.X, s.V.Y, s.V.Z}
}

func neuToECEF(g coord.Geodetic, neu [3]float64) coord.Vec3 {
	sLat, cLat := math.Sincos(g.LatitudeDeg * math.Pi / 180)
	sLon, cLon := math.Sincos(g.LongitudeDeg * math.Pi / 180)

	north := coord.Vec3{-sLat * cLon, -sLat * sLon, cLat}
	east := coord.Vec3{-sLon, cLon, 0}
	up := coord.Vec3{cLat * cLon, cLat * sLon, sLat}
	return north.Scale(neu[0]).Add(east.Scale(neu[1])).Add(up.Scale(neu[2]))
}

// Energy is the specific mechanical energy in the inertial frame. Drag makes
// it decrease monotonically inside the atmosphere.
func (m *RotatingEarth3DoF) Energy(x dynamo.State) float64 {
	v2 := x[3]*x[3] + x[4]*x[4] + x[5]*x[5]
	return 0.5*v2 + gravity.Potential(x[0], x[1], x[2])
}

func (m *RotatingEarth3DoF) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      m.Mass,
		"cd":        m.DragCoefficient,
		"area":      m.ReferenceArea,
		"latitude":  m.Origin.LatitudeDeg,
		"longitude": m.Origin.LongitudeDeg,
		"altitude":  m.Origin.AltitudeM,
		"v_north":   m.GroundVelocity[0],
		"v_east":    m.GroundVelocity[1],
		"v_up":      m.GroundVelocity[2],
	}
}

func (m *RotatingEarth3DoF) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		if value <= 0 {
			return fmt.Errorf("%w: mass %g", dynamo.ErrParameterBounds, value)
		}
		m.Mass = value
	case "cd":
		m.DragCoefficient = value
	case "area":
		if value < 0 {
			return fmt.Errorf("%w: area %g", dynamo.ErrParameterBounds, value)
		}
		m.ReferenceArea = value
	case "latitude":
		m.Origin.LatitudeDeg = value
	case "longitude":
		m.Origin.LongitudeDeg = value
	case "altitude":
		m.Origin.AltitudeM = value
	case "v_north":
		m.GroundVelocity[0] = value
	case "v_east":
		m.GroundVelocity[1] = value
	case "v_up":
		m.GroundVelocity[2] = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
