// Package sim drives N-body runs.
//
// A [System] owns the particle collection and its interaction sets and
// advances them one timestep at a time: the force pass completes for every
// particle before the integration pass starts. A [Simulator] wraps a system
// with an initial condition generator, metrics and observers, and reports
// the energy ledgers before and after the run:
//
//	gen := &initcond.Solar{Seed: 42}
//	s := sim.New(gen, sim.WithLogger(logger))
//	result, err := s.Run(sim.DefaultConfig())
//	fmt.Printf("drift: %.4f%%\n", result.DriftPercent)
//
// Runs are synchronous and not cancellable from inside; a run either
// completes all steps or stops early on a diverged state.
package sim
