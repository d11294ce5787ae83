package analysis

import (
	"errors"
	"math"
)

var ErrTooShort = errors.New("analysis: series too short")

// DominantPeriod returns the period in seconds of the strongest spectral line
// of a series sampled every dt seconds. The series is Hann windowed and the
// peak bin refined by a parabola through the log magnitudes of its
// neighbours, which resolves periods between bin centres. A constant series
// has no line and yields +Inf.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	if len(data) < 4 || dt <= 0 {
		return 0, ErrTooShort
	}

	w := demean(data)
	last := float64(len(w) - 1)
	for i := range w {
		w[i] *= 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/last)
	}
	ps := magnitude(w)
	n := 2 * len(ps)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return math.Inf(1), nil
	}

	bin := float64(peak)
	if peak+1 < len(ps) && ps[peak-1] > 0 && ps[peak+1] > 0 {
		a, b, c := math.Log(ps[peak-1]), math.Log(ps[peak]), math.Log(ps[peak+1])
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}
	return float64(n) * dt / bin, nil
}
