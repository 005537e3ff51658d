package metrics

import (
	"github.com/san-kum/gravsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of observations in which every particle stayed
// within threshold of the origin. Bodies flung out by a near-singular
// encounter show up as a value below 1.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(ps []body.Particle, t float64) {
	s.samples++
	for i := range ps {
		if r3.Norm(ps[i].Position) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
