package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/metrics"
)

// Metric accumulates a scalar over the sampled snapshots of a run.
type Metric interface {
	Name() string
	Observe(ps []body.Particle, t float64)
	Value() float64
	Reset()
}

// Observer receives every sampled snapshot. ps must not be retained or
// modified.
type Observer interface {
	OnStep(step int, ps []body.Particle, t float64)
}

type Config struct {
	// Dt is the fixed timestep.
	Dt float64
	// LenTime is the simulated time in orbits at r = 1 (one orbit is 2π).
	LenTime float64
	// Softening is added in quadrature to every pair separation.
	Softening float64
	// Parallel runs the force and energy passes on a CPU pool of Workers
	// goroutines (0 = one per CPU).
	Parallel bool
	Workers  int
	// SampleEvery controls how often metrics and observers see the state;
	// 0 samples only the first and last step.
	SampleEvery   int
	ValidateState bool
}

const DefaultSoftening = 1e-3

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		LenTime:       1.0,
		Softening:     DefaultSoftening,
		SampleEvery:   100,
		ValidateState: true,
	}
}

// Steps is the integer step count for LenTime orbits: LenTime * 2π / Dt,
// truncated.
func (c Config) Steps() int {
	return int(c.LenTime * (2 * math.Pi / c.Dt))
}

func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidTimestep, c.Dt)
	}
	if !(c.LenTime > 0) || math.IsInf(c.LenTime, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidDuration, c.LenTime)
	}
	if !(c.Softening >= 0) {
		return fmt.Errorf("%w, got %g", ErrNegativeSoftening, c.Softening)
	}
	if steps := c.LenTime * (2 * math.Pi / c.Dt); !(steps < float64(math.MaxInt)) {
		return fmt.Errorf("%w: step count %g does not fit in an int", ErrParameterBounds, steps)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrParameterBounds, c.Workers)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must be >= 0, got %d", ErrParameterBounds, c.SampleEvery)
	}
	return nil
}

func (c Config) backend() compute.Backend {
	if !c.Parallel {
		return compute.Serial{}
	}
	return compute.Select(c.Workers)
}

type Result struct {
	Generator    string
	Particles    int
	Steps        int
	StepsTaken   int
	SimTime      float64
	Initial      metrics.Ledger
	Final        metrics.Ledger
	DriftPercent float64
	Metrics      map[string]float64
	Backend      string
	Elapsed      time.Duration
	Errors       []error
}

// PerStep is the mean wall-clock time of one step.
func (r *Result) PerStep() time.Duration {
	if r.StepsTaken == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.StepsTaken)
}
