package initcond

import (
	"math"
	"math/rand"

	"github.com/san-kum/gravsim/internal/body"
)

var solarBodies = []struct {
	name     string
	mass     float64
	distance float64
}{
	{"sun", 1., 0.0},
	{"Mercury", 1. / 6023600, 0.4},
	{"Venus", 1. / 408524, 0.7},
	{"Earth", 1. / 332946.038, 1},
	{"Mars", 1. / 3098710, 1.5},
	{"Jupiter", 1. / 1047.55, 5.2},
	{"Saturn", 1. / 3499, 9.5},
	{"Uranus", 1. / 22962, 19.2},
	{"Neptune", 1. / 19352, 30.1},
}

// Solar is the sun and the eight planets, masses in solar masses and
// distances in AU. Each planet starts at a random angle on its orbit; the
// angles come from Seed so runs are reproducible.
type Solar struct {
	Seed int64
}

func (s *Solar) Name() string { return string(KindSolar) }

func (s *Solar) Generate() ([]body.Particle, error) {
	rng := rand.New(rand.NewSource(s.Seed))
	ps := make([]body.Particle, 0, len(solarBodies))
	ps = append(ps, central())

	for _, b := range solarBodies[1:] {
		theta := rng.Float64() * 2 * math.Pi
		ps = append(ps, orbiting(b.distance, theta, b.mass))
	}
	return ps, nil
}

// BodyNames returns the label of each generated body, sun first.
func (s *Solar) BodyNames() []string {
	names := make([]string, len(solarBodies))
	for i, b := range solarBodies {
		names[i] = b.name
	}
	return names
}
