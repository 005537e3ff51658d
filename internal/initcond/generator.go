// Package initcond generates initial particle collections.
//
// Two policies exist: [Solar], the sun and eight planets on circular orbits,
// and [Random], a central star with a seeded population of light bodies. Both
// satisfy [Generator]; [New] picks one from an [Options] value.
package initcond

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidCount indicates a negative particle count for the random policy.
	ErrInvalidCount = errors.New("initcond: particle count must be >= 0")

	// ErrUnknownKind indicates an unrecognised generator name.
	ErrUnknownKind = errors.New("initcond: unknown generator")
)

// CentralMass is the mass of the body placed at rest at the origin by every
// generator.
const CentralMass = 1.0

type Generator interface {
	Name() string
	Generate() ([]body.Particle, error)
}

type Kind string

const (
	KindSolar  Kind = "solar"
	KindRandom Kind = "random"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSolar, KindRandom:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q (available: %s, %s)", ErrUnknownKind, s, KindSolar, KindRandom)
	}
}

// Options selects and parameterises a generator. Count is used only by the
// random policy.
type Options struct {
	Kind  Kind
	Seed  int64
	Count int
}

func New(o Options) (Generator, error) {
	switch o.Kind {
	case KindSolar:
		return &Solar{Seed: o.Seed}, nil
	case KindRandom:
		if o.Count < 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, o.Count)
		}
		return &Random{Seed: o.Seed, Count: o.Count}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, o.Kind)
	}
}

func central() body.Particle {
	return body.New(r3.Vec{}, r3.Vec{}, CentralMass)
}

// orbiting places a body at distance r and angle theta in the z = 0 plane,
// moving at circular-orbit speed around the central mass.
func orbiting(r, theta, mass float64) body.Particle {
	sin, cos := math.Sincos(theta)
	v := math.Sqrt(CentralMass / r)
	return body.New(
		r3.Vec{X: r * sin, Y: r * cos},
		r3.Vec{X: -v * cos, Y: v * sin},
		mass,
	)
}
