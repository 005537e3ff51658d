package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// EnergyDrift tracks the largest relative change in total energy seen since
// the first observation.
type EnergyDrift struct {
	name          string
	accountant    *Accountant
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(a *Accountant) *EnergyDrift {
	return &EnergyDrift{name: "max_energy_drift", accountant: a}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(ps []body.Particle, t float64) {
	energy := e.accountant.Snapshot(ps).Sum
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++
	e.maxDrift = math.Max(e.maxDrift, relDiff(energy, e.initialEnergy))
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// TotalMomentum returns the vector sum of m v.
func TotalMomentum(ps []body.Particle) r3.Vec {
	var p r3.Vec
	for i := range ps {
		p = r3.Add(p, r3.Scale(ps[i].Mass, ps[i].Velocity))
	}
	return p
}

// AngularMomentum returns the vector sum of m (x × v) about the origin.
func AngularMomentum(ps []body.Particle) r3.Vec {
	var l r3.Vec
	for i := range ps {
		l = r3.Add(l, r3.Scale(ps[i].Mass, r3.Cross(ps[i].Position, ps[i].Velocity)))
	}
	return l
}

// MomentumDrift reports the magnitude of the change in total linear momentum
// since the first observation. Gravity between bodies conserves it exactly,
// so anything beyond round-off points at an asymmetric force pass.
type MomentumDrift struct {
	initial r3.Vec
	maxDiff float64
	samples int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(ps []body.Particle, t float64) {
	p := TotalMomentum(ps)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDiff = math.Max(m.maxDiff, r3.Norm(r3.Sub(p, m.initial)))
}

func (m *MomentumDrift) Value() float64 { return m.maxDiff }

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.maxDiff = 0
	m.samples = 0
}

// AngularMomentumDrift reports the magnitude of the change in total angular
// momentum about the origin since the first observation. Central pair forces
// conserve it; the Euler update does not, so it grows with dt.
type AngularMomentumDrift struct {
	initial r3.Vec
	maxDiff float64
	samples int
}

func NewAngularMomentumDrift() *AngularMomentumDrift { return &AngularMomentumDrift{} }

func (m *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (m *AngularMomentumDrift) Observe(ps []body.Particle, t float64) {
	l := AngularMomentum(ps)
	if m.samples == 0 {
		m.initial = l
	}
	m.samples++
	m.maxDiff = math.Max(m.maxDiff, r3.Norm(r3.Sub(l, m.initial)))
}

func (m *AngularMomentumDrift) Value() float64 { return m.maxDiff }

func (m *AngularMomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.maxDiff = 0
	m.samples = 0
}
