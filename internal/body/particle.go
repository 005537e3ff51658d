// Package body holds the kinematic state of a point mass and the fixed-step
// integrator that advances it.
package body

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNegativeMass indicates a particle with mass below zero.
	ErrNegativeMass = errors.New("body: negative mass")

	// ErrNonFinite indicates a NaN or Inf component in position, velocity or mass.
	ErrNonFinite = errors.New("body: non-finite state (NaN or Inf detected)")
)

// Particle is a point mass. Acceleration caches the result of the most recent
// force pass and is stale until that pass has run for the current step.
type Particle struct {
	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec
	Mass         float64
}

// New returns a particle with zero acceleration.
func New(position, velocity r3.Vec, mass float64) Particle {
	return Particle{Position: position, Velocity: velocity, Mass: mass}
}

// Update advances the particle by dt: position first, using the velocity from
// before this step, then velocity from the cached acceleration.
func (p *Particle) Update(dt float64) {
	p.Position = r3.Add(p.Position, r3.Scale(dt, p.Velocity))
	p.Velocity = r3.Add(p.Velocity, r3.Scale(dt, p.Acceleration))
}

func (p Particle) Speed2() float64 { return r3.Norm2(p.Velocity) }

// IsFinite reports whether position and velocity contain only finite values.
func (p Particle) IsFinite() bool {
	return finite(p.Position) && finite(p.Velocity) && !math.IsNaN(p.Mass) && !math.IsInf(p.Mass, 0)
}

// Validate rejects particles that cannot take part in a run.
func (p Particle) Validate() error {
	if !p.IsFinite() {
		return ErrNonFinite
	}
	if p.Mass < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeMass, p.Mass)
	}
	return nil
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of a particle collection.
func Clone(ps []Particle) []Particle {
	c := make([]Particle, len(ps))
	copy(c, ps)
	return c
}
