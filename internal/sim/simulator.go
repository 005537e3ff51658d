package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/initcond"
	"github.com/san-kum/gravsim/internal/metrics"
	"go.uber.org/zap"
)

type Simulator struct {
	gen       initcond.Generator
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(gen initcond.Generator, opts ...Option) *Simulator {
	s := &Simulator{
		gen:       gen,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run draws the initial particles from the generator and integrates them.
func (s *Simulator) Run(cfg Config) (*Result, error) {
	if s.gen == nil {
		return nil, errors.New("sim: no initial condition generator")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ps, err := s.gen.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate initial conditions: %w", err)
	}

	result, err := s.RunParticles(ps, cfg)
	if result != nil {
		result.Generator = s.gen.Name()
	}
	return result, err
}

// RunParticles integrates ps for cfg.Steps() steps and reports the energy
// ledgers before and after. ps is copied; the caller's slice is not modified.
// If the state turns non-finite and cfg.ValidateState is set, the run stops
// and the partial result is returned with a *SimulationError.
func (s *Simulator) RunParticles(ps []body.Particle, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend := cfg.backend()
	sys, err := NewSystem(ps, cfg.Softening, backend)
	if err != nil {
		return nil, err
	}
	acc := metrics.NewAccountant(cfg.Softening, backend)

	steps := cfg.Steps()
	result := &Result{
		Particles: sys.Len(),
		Steps:     steps,
		Metrics:   make(map[string]float64),
		Backend:   backend.Name(),
		Errors:    make([]error, 0),
	}

	s.logger.Info("run started",
		zap.Int("particles", sys.Len()),
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("softening", cfg.Softening),
		zap.String("backend", backend.Name()))

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Initial = s.snapshot(acc, sys, cfg)
	s.sample(0, sys, 0)

	start := time.Now()
	t := 0.0
	var runErr error

	for i := 1; i <= steps; i++ {
		sys.Step(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !sys.IsFinite() {
			runErr = &SimulationError{Step: i, Time: t, Wrapped: ErrUnstable}
			result.Errors = append(result.Errors, runErr)
			s.logger.Warn("state diverged", zap.Int("step", i), zap.Float64("t", t))
			break
		}

		if i == steps || (cfg.SampleEvery > 0 && i%cfg.SampleEvery == 0) {
			s.sample(i, sys, t)
		}
	}

	result.Elapsed = time.Since(start)
	result.SimTime = t

	if runErr == nil {
		result.Final = s.snapshot(acc, sys, cfg)
		drift, err := metrics.Drift(result.Initial.Sum, result.Final.Sum)
		if err != nil {
			result.Errors = append(result.Errors, err)
		}
		result.DriftPercent = drift
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run finished",
		zap.Int("steps_taken", result.StepsTaken),
		zap.Duration("elapsed", result.Elapsed),
		zap.Float64("initial_energy", result.Initial.Sum),
		zap.Float64("final_energy", result.Final.Sum),
		zap.Float64("drift_percent", result.DriftPercent))

	return result, runErr
}

func (s *Simulator) snapshot(acc *metrics.Accountant, sys *System, cfg Config) metrics.Ledger {
	if cfg.Parallel {
		return acc.SnapshotParallel(sys.Particles())
	}
	return acc.Snapshot(sys.Particles())
}

func (s *Simulator) sample(step int, sys *System, t float64) {
	ps := sys.Particles()
	for _, m := range s.metrics {
		m.Observe(ps, t)
	}
	for _, o := range s.observers {
		o.OnStep(step, ps, t)
	}
	s.logger.Debug("sample", zap.Int("step", step), zap.Float64("t", t))
}
