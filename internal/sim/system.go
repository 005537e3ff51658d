package sim

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/physics"
)

// System owns a particle collection and the interaction sets indexing into
// it. Each step runs the force pass for every particle to completion before
// any particle is moved.
type System struct {
	particles []body.Particle
	sets      []physics.InteractionSet
	softening float64
	backend   compute.Backend
}

// NewSystem copies ps into a new system. It rejects an empty collection,
// invalid particles and negative softening.
func NewSystem(ps []body.Particle, softening float64, backend compute.Backend) (*System, error) {
	if len(ps) == 0 {
		return nil, ErrEmptySystem
	}
	if !(softening >= 0) {
		return nil, fmt.Errorf("%w, got %g", ErrNegativeSoftening, softening)
	}
	for i := range ps {
		if err := ps[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrInvalidParticle, i, err)
		}
	}
	if backend == nil {
		backend = compute.Serial{}
	}

	return &System{
		particles: body.Clone(ps),
		sets:      physics.BuildInteractions(len(ps)),
		softening: softening,
		backend:   backend,
	}, nil
}

func (s *System) Len() int { return len(s.particles) }

// Particles exposes the live collection. Callers must treat it as read-only.
func (s *System) Particles() []body.Particle { return s.particles }

// Snapshot returns an independent copy of the current state.
func (s *System) Snapshot() []body.Particle { return body.Clone(s.particles) }

// Add appends a particle and rebuilds every interaction set.
func (s *System) Add(p body.Particle) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParticle, err)
	}
	s.particles = append(s.particles, p)
	s.sets = physics.BuildInteractions(len(s.particles))
	return nil
}

// ComputeAccelerations refreshes every cached acceleration. Chunks write only
// their own owners, so no synchronisation is needed inside the pass.
func (s *System) ComputeAccelerations() {
	ps, sets, eps := s.particles, s.sets, s.softening
	s.backend.For(len(sets), func(_, start, end int) {
		for i := start; i < end; i++ {
			physics.SumAcceleration(ps, sets[i], eps)
		}
	})
}

// Integrate advances every particle by dt from its cached acceleration.
func (s *System) Integrate(dt float64) {
	ps := s.particles
	s.backend.For(len(ps), func(_, start, end int) {
		for i := start; i < end; i++ {
			ps[i].Update(dt)
		}
	})
}

// Step is one full timestep: force pass, then integration pass.
func (s *System) Step(dt float64) {
	s.ComputeAccelerations()
	s.Integrate(dt)
}

func (s *System) IsFinite() bool {
	for i := range s.particles {
		if !s.particles[i].IsFinite() {
			return false
		}
	}
	return true
}
