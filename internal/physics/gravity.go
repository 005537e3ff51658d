package physics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// G is the gravitational constant in simulation units: masses in solar
// masses, distances in AU, one orbit at r = 1 lasting 2π.
const G = 1.0

// AccelerationOn returns the acceleration imposed on pi by pj:
//
//	m_j * r / (|r|² + eps²)^(3/2),  r = x_j - x_i
//
// Coincident positions with eps == 0 (including pi == pj) yield the zero
// vector rather than 0/0.
func AccelerationOn(pi, pj *body.Particle, eps float64) r3.Vec {
	r := r3.Sub(pj.Position, pi.Position)
	d2 := r3.Norm2(r) + eps*eps
	if d2 == 0 {
		return r3.Vec{}
	}
	inv := 1.0 / math.Sqrt(d2)
	return r3.Scale(G*pj.Mass*inv*inv*inv, r)
}

// PairPotential is the full pairwise potential energy -G m_i m_j / sqrt(d²+eps²).
// A massless partner contributes 0 at any separation. Coincident massive
// particles with eps == 0 give -Inf.
func PairPotential(pi, pj *body.Particle, eps float64) float64 {
	if pi.Mass*pj.Mass == 0 {
		return 0
	}
	d2 := r3.Norm2(r3.Sub(pj.Position, pi.Position)) + eps*eps
	return -G * pi.Mass * pj.Mass / math.Sqrt(d2)
}
