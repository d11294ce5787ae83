package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/astrodyn/internal/dynamo"
)

// Recorder exports the progress of a run as Prometheus series. It is a
// dynamo.Observer; register it with Simulator.AddObserver.
type Recorder struct {
	steps    prometheus.Counter
	simTime  prometheus.Gauge
	altitude prometheus.Gauge
	speed    prometheus.Gauge
	energy   prometheus.Gauge
	stepDur  prometheus.Histogram

	altFn func(x dynamo.State, t float64) float64
	dyn   dynamo.System
	prevT float64
	seen  bool
}

// NewRecorder registers the recorder's series on reg under the given model
// label. altFn may be nil when the model has no notion of altitude.
func NewRecorder(reg prometheus.Registerer, model string, dyn dynamo.System, altFn func(x dynamo.State, t float64) float64) (*Recorder, error) {
	labels := prometheus.Labels{"model": model}
	r := &Recorder{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "astrodyn",
			Name:        "steps_total",
			Help:        "Integration steps taken.",
			ConstLabels: labels,
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "astrodyn",
			Name:        "sim_time_seconds",
			Help:        "Simulated time of the latest step.",
			ConstLabels: labels,
		}),
		altitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "astrodyn",
			Name:        "altitude_meters",
			Help:        "Geodetic altitude of the latest state.",
			ConstLabels: labels,
		}),
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "astrodyn",
			Name:        "speed_meters_per_second",
			Help:        "Inertial speed of the latest state.",
			ConstLabels: labels,
		}),
		energy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "astrodyn",
			Name:        "specific_energy_joules_per_kilogram",
			Help:        "Specific mechanical energy of the latest state.",
			ConstLabels: labels,
		}),
		stepDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "astrodyn",
			Name:        "step_size_seconds",
			Help:        "Distribution of integration step sizes.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		altFn: altFn,
		dyn:   dyn,
	}

	for _, c := range []prometheus.Collector{r.steps, r.simTime, r.altitude, r.speed, r.energy, r.stepDur} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	if r.seen {
		r.steps.Inc()
		r.stepDur.Observe(t - r.prevT)
	}
	r.seen = true
	r.prevT = t
	r.simTime.Set(t)

	if r.altFn != nil {
		r.altitude.Set(r.altFn(x, t))
	}
	if len(x) >= 6 {
		r.speed.Set(dynamo.State(x[3:6]).Norm())
	}
	if h, ok := r.dyn.(dynamo.Hamiltonian); ok {
		r.energy.Set(h.Energy(x))
	}
}
