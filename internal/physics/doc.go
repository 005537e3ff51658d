// Package physics provides the direct-sum gravitational force model.
//
// The force between two point masses is evaluated by [AccelerationOn], a
// softened Newtonian kernel. Each particle sums the kernel over its
// [InteractionSet], an index list into the owning particle slice that never
// contains the particle itself:
//
//	sets := physics.BuildInteractions(len(particles))
//	physics.SumAll(particles, sets, 1e-3)
//
// # Softening
//
// A softening length eps is added in quadrature to the separation, bounding
// the force as two bodies approach. With eps == 0 close encounters may blow
// up numerically; this is a quality issue, not an error.
//
// The cost of a full pass is O(n²). See the compute package for the
// parallel variant.
package physics
