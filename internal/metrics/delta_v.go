package metrics

import (
	"math"

	"github.com/san-kum/astrodyn/internal/dynamo"
)

// DeltaV integrates the magnitude of an acceleration control vector over
// time with the rectangle rule, m/s. Each sample is held until the next one,
// so the interval after the final observation is not counted.
type DeltaV struct {
	name    string
	sum     float64
	prevT   float64
	prevMag float64
	samples int
}

func NewDeltaV() *DeltaV {
	return &DeltaV{
		name: "delta_v",
	}
}

func (d *DeltaV) Name() string {
	return d.name
}

func (d *DeltaV) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if d.samples > 0 {
		d.sum += d.prevMag * (t - d.prevT)
	}
	d.prevMag = dynamo.State(u).Norm()
	d.prevT = t
	d.samples++
}

func (d *DeltaV) Value() float64 {
	return d.sum
}

func (d *DeltaV) Reset() {
	d.sum = 0
	d.prevT = 0
	d.prevMag = 0
	d.samples = 0
}

// MinAltitude tracks the lowest altitude seen, as reported by fn.
type MinAltitude struct {
	name string
	fn   func(x dynamo.State, t float64) float64
	min  float64
}

func NewMinAltitude(fn func(x dynamo.State, t float64) float64) *MinAltitude {
	return &MinAltitude{name: "min_altitude", fn: fn, min: math.Inf(1)}
}

func (m *MinAltitude) Name() string { return m.name }

func (m *MinAltitude) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if alt := m.fn(x, t); alt < m.min {
		m.min = alt
	}
}

func (m *MinAltitude) Value() float64 { return m.min }

func (m *MinAltitude) Reset() { m.min = math.Inf(1) }
