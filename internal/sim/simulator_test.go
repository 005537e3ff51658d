package sim_test

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/initcond"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingObserver struct {
	steps []int
}

func (c *countingObserver) OnStep(step int, ps []body.Particle, t float64) {
	c.steps = append(c.steps, step)
}

func shortRun() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = 0.001
	cfg.LenTime = 0.2
	return cfg
}

var _ = Describe("Config", func() {
	It("derives the step count from simulated orbits", func() {
		Expect(sim.Config{Dt: 0.001, LenTime: 1}.Steps()).To(Equal(6283))
		Expect(sim.Config{Dt: 0.1, LenTime: 2}.Steps()).To(Equal(125))
	})

	It("accepts the defaults", func() {
		Expect(sim.DefaultConfig().Validate()).To(Succeed())
		Expect(sim.DefaultConfig().Softening).To(BeNumerically(">", 0))
	})

	DescribeTable("rejects invalid parameters",
		func(mutate func(*sim.Config), want error) {
			cfg := sim.DefaultConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(want))
		},
		Entry("zero dt", func(c *sim.Config) { c.Dt = 0 }, sim.ErrInvalidTimestep),
		Entry("negative dt", func(c *sim.Config) { c.Dt = -0.1 }, sim.ErrInvalidTimestep),
		Entry("NaN dt", func(c *sim.Config) { c.Dt = math.NaN() }, sim.ErrInvalidTimestep),
		Entry("zero duration", func(c *sim.Config) { c.LenTime = 0 }, sim.ErrInvalidDuration),
		Entry("negative softening", func(c *sim.Config) { c.Softening = -1 }, sim.ErrNegativeSoftening),
		Entry("negative workers", func(c *sim.Config) { c.Workers = -2 }, sim.ErrParameterBounds),
		Entry("negative sample interval", func(c *sim.Config) { c.SampleEvery = -1 }, sim.ErrParameterBounds),
		Entry("step count overflow", func(c *sim.Config) { c.LenTime = 1e300 }, sim.ErrParameterBounds),
		Entry("step count overflow from tiny dt", func(c *sim.Config) { c.Dt = 1e-300 }, sim.ErrParameterBounds),
	)
})

var _ = Describe("Simulator", func() {
	It("keeps the solar system energy drift bounded", func() {
		s := sim.New(&initcond.Solar{Seed: 42})
		result, err := s.Run(shortRun())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Generator).To(Equal("solar"))
		Expect(result.Particles).To(Equal(9))
		Expect(result.StepsTaken).To(Equal(result.Steps))
		Expect(result.Initial.Len()).To(Equal(9))
		Expect(result.Final.Len()).To(Equal(9))
		Expect(result.Initial.Sum).To(BeNumerically("<", 0))
		Expect(math.Abs(result.DriftPercent)).To(BeNumerically("<", 1.0))
		Expect(result.Errors).To(BeEmpty())
	})

	It("reports the same run on the parallel path", func() {
		cfg := shortRun()
		serial, err := sim.New(&initcond.Random{Seed: 8, Count: 24}).Run(cfg)
		Expect(err).NotTo(HaveOccurred())

		cfg.Parallel = true
		cfg.Workers = 4
		parallel, err := sim.New(&initcond.Random{Seed: 8, Count: 24}).Run(cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(parallel.Backend).To(Equal("cpu(4)"))
		Expect(parallel.Final.Sum).To(BeNumerically("~", serial.Final.Sum, 1e-12*math.Abs(serial.Final.Sum)))
		Expect(parallel.DriftPercent).To(BeNumerically("~", serial.DriftPercent, 1e-6))
		for i := range serial.Final.Kinetic {
			Expect(parallel.Final.Kinetic[i]).To(Equal(serial.Final.Kinetic[i]))
		}
	})

	It("feeds metrics and observers at the sampling interval", func() {
		cfg := shortRun()
		cfg.SampleEvery = 100

		obs := &countingObserver{}
		s := sim.New(&initcond.Solar{Seed: 1})
		s.AddObserver(obs)
		s.AddMetric(metrics.NewEnergyDrift(metrics.NewAccountant(cfg.Softening, nil)))
		s.AddMetric(metrics.NewMomentumDrift())

		result, err := s.Run(cfg)
		Expect(err).NotTo(HaveOccurred())

		steps := cfg.Steps()
		Expect(obs.steps[0]).To(Equal(0))
		Expect(obs.steps[len(obs.steps)-1]).To(Equal(steps))
		Expect(obs.steps).To(HaveLen(2 + steps/100))
		Expect(result.Metrics).To(HaveKey("max_energy_drift"))
		Expect(result.Metrics["max_energy_drift"]).To(BeNumerically("<", 0.01))
		Expect(result.Metrics["momentum_drift"]).To(BeNumerically("<", 1e-9))
	})

	It("leaves the caller's particles untouched", func() {
		ps := []body.Particle{
			body.New(r3.Vec{}, r3.Vec{}, 1),
			body.New(r3.Vec{X: 1}, r3.Vec{Y: 1}, 1e-3),
		}
		before := body.Clone(ps)

		_, err := sim.New(nil).RunParticles(ps, shortRun())
		Expect(err).NotTo(HaveOccurred())
		Expect(ps).To(Equal(before))
	})

	It("stops on a diverged state", func() {
		ps := []body.Particle{
			body.New(r3.Vec{}, r3.Vec{X: 1e308}, 1),
			body.New(r3.Vec{X: 1}, r3.Vec{}, 1),
		}
		cfg := sim.Config{Dt: 10, LenTime: 10, ValidateState: true}

		result, err := sim.New(nil).RunParticles(ps, cfg)
		Expect(err).To(MatchError(sim.ErrUnstable))

		var simErr *sim.SimulationError
		Expect(err).To(BeAssignableToTypeOf(simErr))
		simErr = err.(*sim.SimulationError)
		Expect(simErr.Step).To(Equal(1))
		Expect(result.StepsTaken).To(Equal(1))
	})

	It("records an undefined drift for a zero-energy system", func() {
		ps := []body.Particle{body.New(r3.Vec{}, r3.Vec{}, 1)}
		result, err := sim.New(nil).RunParticles(ps, shortRun())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(ContainElement(MatchError(metrics.ErrZeroBaseline)))
	})

	It("fails fast on bad input", func() {
		_, err := sim.New(nil).Run(shortRun())
		Expect(err).To(HaveOccurred())

		_, err = sim.New(&initcond.Random{Count: -1}).Run(shortRun())
		Expect(err).To(MatchError(initcond.ErrInvalidCount))

		_, err = sim.New(&initcond.Solar{}).Run(sim.Config{Dt: 0, LenTime: 1})
		Expect(err).To(MatchError(sim.ErrInvalidTimestep))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one simulation per seed", func() {
		cfg := sim.Config{Dt: 0.01, LenTime: 0.05, Softening: 1e-3}
		e := sim.NewEnsemble(initcond.Options{Kind: initcond.KindRandom, Count: 5}, 3, 100, nil)

		results, err := e.Run(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].Initial.Sum).NotTo(Equal(results[1].Initial.Sum))

		stats := sim.SummarizeDrift(results)
		Expect(stats.Runs).To(Equal(3))
		Expect(stats.MaxAbs).To(BeNumerically(">=", math.Abs(stats.Mean)))
	})

	It("propagates generator errors", func() {
		e := sim.NewEnsemble(initcond.Options{Kind: "plummer"}, 2, 0, nil)
		_, err := e.Run(sim.DefaultConfig())
		Expect(err).To(MatchError(initcond.ErrUnknownKind))
	})
})
