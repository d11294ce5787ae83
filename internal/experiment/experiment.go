package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/astrodyn/internal/config"
	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/metrics"
)

var ErrNotSetup = errors.New("experiment not setup")

// Experiment builds one scenario from a config and runs it.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	dyn       dynamo.System
	simulator *dynamo.Simulator
	logger    log.Logger
	reg       prometheus.Registerer
}

type Option func(*Experiment)

func WithLogger(l log.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// WithRegisterer exports the run's progress as Prometheus series on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Experiment) { e.reg = reg }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup resolves the model, integrator and controller named in the config,
// applies model parameters and attaches the default metrics.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	dyn, err := e.registry.GetModel(e.cfg.Model)
	if err != nil {
		return err
	}
	if err := applyParams(dyn, e.cfg.ModelParams()); err != nil {
		return fmt.Errorf("model %s: %w", e.cfg.Model, err)
	}

	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	ctrl, err := e.registry.GetController(e.cfg.Controller, e.cfg.GetControllerParams(dyn.ControlDim()))
	if err != nil {
		return err
	}

	e.dyn = dyn
	e.simulator = dynamo.New(dyn, integ, ctrl, dynamo.WithLogger(e.logger))
	for _, m := range e.registry.DefaultMetrics(e.cfg.Model, dyn) {
		e.simulator.AddMetric(m)
	}

	if e.reg != nil {
		var altFn func(dynamo.State, float64) float64
		if a, ok := dyn.(Altimeter); ok {
			altFn = a.AltitudeAt
		}
		rec, err := metrics.NewRecorder(e.reg, e.cfg.Model, dyn, altFn)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		e.simulator.AddObserver(rec)
	}

	level.Debug(e.logger).Log("msg", "experiment ready", "model", e.cfg.Model, "integrator", e.cfg.Integrator, "controller", e.cfg.Controller)
	return nil
}

func applyParams(dyn dynamo.System, params map[string]float64) error {
	if len(params) == 0 {
		return nil
	}
	c, ok := dyn.(dynamo.Configurable)
	if !ok {
		return fmt.Errorf("%w: model takes no parameters", dynamo.ErrParameterBounds)
	}
	for name, v := range params {
		if err := c.SetParam(name, v); err != nil {
			return err
		}
	}
	return nil
}

// InitialState returns the configured initial state, or the model's default
// when the config names none.
func (e *Experiment) InitialState() (dynamo.State, error) {
	if e.dyn == nil {
		return nil, ErrNotSetup
	}
	if x0 := e.cfg.GetInitState(); x0 != nil {
		return dynamo.State(x0), nil
	}
	if d, ok := e.dyn.(dynamo.Defaulter); ok {
		return d.DefaultState(), nil
	}
	return make(dynamo.State, e.dyn.StateDim()), nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}

	x0, err := e.InitialState()
	if err != nil {
		return nil, err
	}

	return e.simulator.Run(ctx, x0, e.cfg.SimConfig())
}

// Stream propagates the scenario at its fixed dt without keeping history,
// handing every state to fn until fn returns false. Adaptive stepping is
// not used.
func (e *Experiment) Stream(ctx context.Context, fn func(x dynamo.State, t float64) bool) error {
	if e.simulator == nil {
		return ErrNotSetup
	}

	x0, err := e.InitialState()
	if err != nil {
		return err
	}

	cfg := e.cfg.SimConfig()
	cfg.Adaptive = false
	return e.simulator.RunWithCallback(ctx, x0, cfg, func(x dynamo.State, _ dynamo.Control, t float64) bool {
		return fn(x, t)
	})
}

// Model returns the configured system, nil before Setup.
func (e *Experiment) Model() dynamo.System {
	return e.dyn
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}
