package sim_test

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/initcond"
	"github.com/san-kum/gravsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("System", func() {
	Describe("NewSystem", func() {
		It("rejects an empty collection", func() {
			_, err := sim.NewSystem(nil, 0, nil)
			Expect(err).To(MatchError(sim.ErrEmptySystem))
		})

		It("rejects negative softening", func() {
			ps := []body.Particle{body.New(r3.Vec{}, r3.Vec{}, 1)}
			_, err := sim.NewSystem(ps, -0.1, nil)
			Expect(err).To(MatchError(sim.ErrNegativeSoftening))
		})

		It("rejects invalid particles", func() {
			ps := []body.Particle{
				body.New(r3.Vec{}, r3.Vec{}, 1),
				body.New(r3.Vec{X: 1}, r3.Vec{}, -2),
			}
			_, err := sim.NewSystem(ps, 0, nil)
			Expect(err).To(MatchError(sim.ErrInvalidParticle))
			Expect(err).To(MatchError(body.ErrNegativeMass))
		})

		It("owns a copy of the particles", func() {
			ps := []body.Particle{body.New(r3.Vec{}, r3.Vec{X: 1}, 1)}
			sys, err := sim.NewSystem(ps, 0, nil)
			Expect(err).NotTo(HaveOccurred())

			sys.Step(0.5)
			Expect(ps[0].Position).To(Equal(r3.Vec{}))
			Expect(sys.Particles()[0].Position).To(Equal(r3.Vec{X: 0.5}))
		})
	})

	Describe("Step", func() {
		It("computes every acceleration before moving any particle", func() {
			ps := []body.Particle{
				body.New(r3.Vec{}, r3.Vec{Y: 1}, 1),
				body.New(r3.Vec{X: 1}, r3.Vec{}, 1),
			}
			sys, err := sim.NewSystem(ps, 0, nil)
			Expect(err).NotTo(HaveOccurred())

			sys.Step(0.1)
			got := sys.Particles()

			Expect(got[0].Position).To(Equal(r3.Vec{Y: 0.1}))
			Expect(got[0].Velocity).To(Equal(r3.Vec{X: 0.1, Y: 1}))
			// p1 must see p0 where it was at the start of the step.
			Expect(got[1].Acceleration).To(Equal(r3.Vec{X: -1}))
			Expect(got[1].Velocity).To(Equal(r3.Vec{X: -0.1}))
		})

		It("gives identical trajectories on serial and parallel backends", func() {
			ps, err := (&initcond.Random{Seed: 11, Count: 40}).Generate()
			Expect(err).NotTo(HaveOccurred())

			serial, err := sim.NewSystem(ps, 1e-3, compute.Serial{})
			Expect(err).NotTo(HaveOccurred())
			parallel, err := sim.NewSystem(ps, 1e-3, compute.NewCPUBackend(4))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 50; i++ {
				serial.Step(0.01)
				parallel.Step(0.01)
			}
			Expect(parallel.Snapshot()).To(Equal(serial.Snapshot()))
		})
	})

	Describe("Add", func() {
		It("rebuilds the interaction sets", func() {
			sys, err := sim.NewSystem([]body.Particle{body.New(r3.Vec{}, r3.Vec{}, 1)}, 0, nil)
			Expect(err).NotTo(HaveOccurred())

			sys.ComputeAccelerations()
			Expect(sys.Particles()[0].Acceleration).To(Equal(r3.Vec{}))

			Expect(sys.Add(body.New(r3.Vec{X: 2}, r3.Vec{}, 4))).To(Succeed())
			Expect(sys.Len()).To(Equal(2))

			sys.ComputeAccelerations()
			Expect(sys.Particles()[0].Acceleration).To(Equal(r3.Vec{X: 1}))
		})

		It("rejects invalid particles", func() {
			sys, err := sim.NewSystem([]body.Particle{body.New(r3.Vec{}, r3.Vec{}, 1)}, 0, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.Add(body.New(r3.Vec{}, r3.Vec{}, -1))).To(MatchError(sim.ErrInvalidParticle))
		})
	})
})
