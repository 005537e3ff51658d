package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup and runs.
var (
	// ErrInvalidTimestep indicates a timestep that is not strictly positive.
	ErrInvalidTimestep = errors.New("sim: timestep must be positive")

	// ErrInvalidDuration indicates a simulated time span that is not strictly positive.
	ErrInvalidDuration = errors.New("sim: simulated time must be positive")

	// ErrNegativeSoftening indicates a softening length below zero.
	ErrNegativeSoftening = errors.New("sim: softening length must be >= 0")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("sim: parameter out of valid bounds")

	// ErrEmptySystem indicates a system with no particles.
	ErrEmptySystem = errors.New("sim: particle collection is empty")

	// ErrInvalidParticle indicates a particle with negative mass or non-finite state.
	ErrInvalidParticle = errors.New("sim: invalid particle")

	// ErrUnstable indicates the integration produced NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (state diverged)")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
