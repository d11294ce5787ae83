package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	metrics    []Metric
	observers  []Observer
	logger     log.Logger
}

type Option func(*Simulator)

// WithLogger sets the logger used for run lifecycle events.
func WithLogger(l log.Logger) Option {
	return func(s *Simulator) { s.logger = log.With(l, "subsys", "sim") }
}

// New builds a simulator. A nil controller applies zero control.
func New(dyn System, integrator Integrator, controller Controller, opts ...Option) *Simulator {
	s := &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(math.Ceil(cfg.Duration/cfg.Dt - 1e-9))
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := cfg.Start
	end := cfg.Start + cfg.Duration
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialEnergy := s.computeEnergy(x)
	level.Debug(s.logger).Log("msg", "run started", "dim", len(x), "dt", cfg.Dt, "duration", cfg.Duration, "adaptive", cfg.Adaptive)

	for i := 0; end-t > 1e-9*math.Max(1, math.Abs(end)); i++ {
		select {
		case <-ctx.Done():
			level.Warn(s.logger).Log("msg", "run canceled", "t", t, "step", i)
			return result, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		u := s.control(x, t)

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		h := math.Min(dt, end-t)

		var newX State
		if cfg.Adaptive {
			var used, next float64
			var err error
			newX, used, next, err = s.adaptiveStep(x, u, t, h, cfg)
			if err != nil {
				err = &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: err}
				result.Errors = append(result.Errors, err)
				level.Error(s.logger).Log("msg", "adaptive step failed", "t", t, "step", i, "err", err)
				break
			}
			h = used
			dt = next
		} else {
			newX = s.integrator.Step(s.dyn, x, u, t, h)
		}

		if cfg.ValidateState && !newX.IsValid() {
			err := &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrInvalidState}
			result.Errors = append(result.Errors, err)
			level.Error(s.logger).Log("msg", "state diverged", "t", t, "step", i)
			break
		}

		x = newX
		t += h
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	level.Info(s.logger).Log("msg", "run finished", "steps", result.StepsTaken, "t", t, "energy_drift", result.EnergyDrift, "errors", len(result.Errors))
	return result, nil
}

func (s *Simulator) control(x State, t float64) Control {
	if s.controller == nil {
		return make(Control, s.dyn.ControlDim())
	}
	return s.controller.Compute(x, t)
}

func (s *Simulator) validateConfig(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidConfig)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: x0 has %d elements, system expects %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return ErrInvalidState
	}
	return nil
}

func (s *Simulator) computeEnergy(x State) float64 {
	if h, ok := s.dyn.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

// adaptiveStep defers to the integrator's own error control when it has one
// and otherwise compares one full step against two half steps.
func (s *Simulator) adaptiveStep(x State, u Control, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		next, used, suggested, err := adaptive.StepAdaptive(s.dyn, x, u, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, 0, 0, err
		}
		return next, used, clamp(suggested, cfg.MinDt, cfg.MaxDt), nil
	}

	for {
		x1 := s.integrator.Step(s.dyn, x, u, t, dt)
		xHalf := s.integrator.Step(s.dyn, x, u, t, dt/2)
		x2 := s.integrator.Step(s.dyn, xHalf, u, t+dt/2, dt/2)

		errNorm := x1.Sub(x2).Norm()

		if errNorm > cfg.Tolerance {
			if dt/2 < cfg.MinDt {
				return nil, 0, 0, ErrStepTooSmall
			}
			dt /= 2
			continue
		}

		next := dt
		if errNorm < cfg.Tolerance/10 {
			next = dt * 2
		}
		return x2, dt, clamp(next, cfg.MinDt, cfg.MaxDt), nil
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// RunWithCallback steps at a fixed dt until the callback returns false or the
// duration elapses, without recording history. The callback sees every state
// including the final one. Metrics and observers are not driven.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, Control, float64) bool) error {
	if err := s.validateConfig(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := cfg.Start
	end := cfg.Start + cfg.Duration

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		u := s.control(x, t)
		if !callback(x, u, t) || end-t <= 1e-9*math.Max(1, math.Abs(end)) {
			return nil
		}

		h := math.Min(cfg.Dt, end-t)
		next := s.integrator.Step(s.dyn, x, u, t, h)
		if cfg.ValidateState && !next.IsValid() {
			level.Error(s.logger).Log("msg", "state diverged", "t", t, "step", i)
			return &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrInvalidState}
		}
		x = next
		t += h
	}
}

// IsCanceled reports whether err came from context cancellation of a run.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrContextCanceled) || errors.Is(err, context.Canceled)
}
