package initcond

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/gravsim/internal/body"
)

const (
	MinRandomMass     = 1.0 / 6000000
	MaxRandomMass     = 1.0 / 1000
	MinRandomDistance = 0.4
	MaxRandomDistance = 30.0
)

// Random places Count light bodies on circular orbits around a central star.
// Masses, distances and angles are drawn uniformly from a generator seeded
// with Seed.
type Random struct {
	Seed  int64
	Count int
}

func (r *Random) Name() string { return string(KindRandom) }

func (r *Random) Generate() ([]body.Particle, error) {
	if r.Count < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, r.Count)
	}

	rng := rand.New(rand.NewSource(r.Seed))
	uniform := func(lo, hi float64) float64 { return lo + (hi-lo)*rng.Float64() }

	ps := make([]body.Particle, 0, r.Count+1)
	ps = append(ps, central())
	for i := 0; i < r.Count; i++ {
		mass := uniform(MinRandomMass, MaxRandomMass)
		dist := uniform(MinRandomDistance, MaxRandomDistance)
		theta := uniform(0, 2*math.Pi)
		ps = append(ps, orbiting(dist, theta, mass))
	}
	return ps, nil
}
