package physics

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// InteractionSet lists the partners a particle sums forces against. Both
// Owner and Partners index the simulation's particle slice; the set holds no
// references into it, so growing or reallocating the slice cannot leave it
// dangling.
type InteractionSet struct {
	Owner    int
	Partners []int
}

// BuildInteractions returns the all-pairs interaction sets for n particles.
// Set i contains every index except i.
func BuildInteractions(n int) []InteractionSet {
	sets := make([]InteractionSet, n)
	for i := 0; i < n; i++ {
		partners := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				partners = append(partners, j)
			}
		}
		sets[i] = InteractionSet{Owner: i, Partners: partners}
	}
	return sets
}

// Check verifies the set refers only to indices inside a collection of n
// particles.
func (s InteractionSet) Check(n int) error {
	if s.Owner < 0 || s.Owner >= n {
		return fmt.Errorf("interaction owner %d out of range [0,%d)", s.Owner, n)
	}
	for _, j := range s.Partners {
		if j < 0 || j >= n {
			return fmt.Errorf("interaction partner %d of %d out of range [0,%d)", j, s.Owner, n)
		}
	}
	return nil
}

// NetAcceleration sums the kernel over the set's partners. The owner is
// excluded by index, so two distinct particles with identical state still
// act on each other.
func NetAcceleration(ps []body.Particle, set InteractionSet, eps float64) r3.Vec {
	self := &ps[set.Owner]
	var acc r3.Vec
	for _, j := range set.Partners {
		if j == set.Owner {
			continue
		}
		acc = r3.Add(acc, AccelerationOn(self, &ps[j], eps))
	}
	return acc
}

// SumAcceleration refreshes the owner's cached acceleration. It writes only
// ps[set.Owner], so sets with distinct owners may run concurrently.
func SumAcceleration(ps []body.Particle, set InteractionSet, eps float64) {
	ps[set.Owner].Acceleration = NetAcceleration(ps, set, eps)
}

// SumAll runs the force pass for every set, sequentially.
func SumAll(ps []body.Particle, sets []InteractionSet, eps float64) {
	for _, s := range sets {
		SumAcceleration(ps, s, eps)
	}
}
