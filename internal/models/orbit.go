package models

import (
	"fmt"
	"math"

	"github.com/san-kum/astrodyn/internal/coord"
	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/frames"
	"github.com/san-kum/astrodyn/internal/gravity"
)

const (
	DefaultAltitude    = 400e3
	DefaultInclination = 51.6
)

// OrbitSlots names the state elements of the orbital models in order.
var OrbitSlots = []string{"x", "y", "z", "vx", "vy", "vz"}

// Orbit propagates a point mass in the J2 gravity field. The control
// vector is an applied acceleration in ECI, m/s².
type Orbit struct {
	J2          bool
	Altitude    float64
	Inclination float64
}

func NewOrbit() *Orbit {
	o := &Orbit{}
	o.Reset()
	return o
}

func (o *Orbit) Reset() {
	o.J2 = true
	o.Altitude = DefaultAltitude
	o.Inclination = DefaultInclination
}

func (o *Orbit) StateDim() int   { return 6 }
func (o *Orbit) ControlDim() int { return 3 }

func (o *Orbit) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	var ax, ay, az float64
	if o.J2 {
		ax, ay, az = gravity.Acceleration(x[0], x[1], x[2])
	} else {
		ax, ay, az = gravity.PointMass(x[0], x[1], x[2])
	}
	if len(u) >= 3 {
		ax += u[0]
		ay += u[1]
		az += u[2]
	}
	return dynamo.State{x[3], x[4], x[5], ax, ay, az}
}

// Energy is the specific orbital energy, J/kg.
func (o *Orbit) Energy(x dynamo.State) float64 {
	v2 := x[3]*x[3] + x[4]*x[4] + x[5]*x[5]
	if o.J2 {
		return 0.5*v2 + gravity.Potential(x[0], x[1], x[2])
	}
	return 0.5*v2 - gravity.GM/math.Sqrt(x[0]*x[0]+x[1]*x[1]+x[2]*x[2])
}

// DefaultState is a circular orbit at Altitude above the equatorial radius,
// ascending node on the x axis.
func (o *Orbit) DefaultState() dynamo.State {
	return CircularOrbit(gravity.Re+o.Altitude, o.Inclination)
}

// CircularOrbit returns the ECI state of a Keplerian circular orbit of
// radius r and inclination incDeg at its ascending node.
func CircularOrbit(r, incDeg float64) dynamo.State {
	v := math.Sqrt(gravity.GM / r)
	s, c := math.Sincos(incDeg * math.Pi / 180)
	return dynamo.State{r, 0, 0, 0, v * c, v * s}
}

// AltitudeAt returns the geodetic altitude of an orbital state t seconds after
// the ECEF and ECI frames coincided.
func (o *Orbit) AltitudeAt(x dynamo.State, t float64) float64 {
	return frames.ECEFToGeodetic(frames.ECIToECEF(Position(x), t)).AltitudeM
}

// Position returns the frame-tagged position of an orbital state.
func Position(x dynamo.State) coord.ECI {
	return coord.ECI{X: x[0], Y: x[1], Z: x[2]}
}

// Velocity returns the frame-tagged velocity of an orbital state.
func Velocity(x dynamo.State) coord.ECI {
	return coord.ECI{X: x[3], Y: x[4], Z: x[5]}
}

func (o *Orbit) GetParams() map[string]float64 {
	j2 := 0.0
	if o.J2 {
		j2 = 1
	}
	return map[string]float64{
		"j2":          j2,
		"altitude":    o.Altitude,
		"inclination": o.Inclination,
	}
}

func (o *Orbit) SetParam(name string, value float64) error {
	switch name {
	case "j2":
		o.J2 = value != 0
	case "altitude":
		if value <= -gravity.Re {
			return fmt.Errorf("%w: altitude %g", dynamo.ErrParameterBounds, value)
		}
		o.Altitude = value
	case "inclination":
		o.Inclination = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
