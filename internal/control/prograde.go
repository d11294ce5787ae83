package control

import (
	"fmt"

	"github.com/san-kum/astrodyn/internal/dynamo"
)

// Prograde applies Magnitude along the inertial velocity of a
// [x y z vx vy vz] state while Start <= t < Stop.
type Prograde struct {
	Magnitude float64
	Start     float64
	Stop      float64
}

func NewPrograde(magnitude, start, stop float64) *Prograde {
	return &Prograde{Magnitude: magnitude, Start: start, Stop: stop}
}

func (p *Prograde) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, 3)
	if t < p.Start || t >= p.Stop {
		return u
	}
	v := dynamo.State(x[3:6])
	n := v.Norm()
	if n == 0 {
		return u
	}
	for i := range u {
		u[i] = p.Magnitude * v[i] / n
	}
	return u
}

func (p *Prograde) GetParams() map[string]float64 {
	return map[string]float64{
		"magnitude": p.Magnitude,
		"start":     p.Start,
		"stop":      p.Stop,
	}
}

func (p *Prograde) SetParam(name string, value float64) error {
	switch name {
	case "magnitude":
		p.Magnitude = value
	case "start":
		p.Start = value
	case "stop":
		p.Stop = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
