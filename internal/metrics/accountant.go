package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/physics"
)

var (
	// ErrLedgerMismatch indicates kinetic and potential sequences taken from
	// snapshots of different sizes.
	ErrLedgerMismatch = errors.New("metrics: kinetic and potential energy lengths differ")

	// ErrZeroBaseline indicates a drift relative to a zero initial energy.
	ErrZeroBaseline = errors.New("metrics: initial energy is zero, drift undefined")
)

// Ledger holds per-particle energies of one particle snapshot. It is a value:
// after any position or velocity change a new ledger must be computed.
type Ledger struct {
	Kinetic   []float64 `json:"kinetic"`
	Potential []float64 `json:"potential"`
	Total     []float64 `json:"total"`
	Sum       float64   `json:"sum"`
}

func (l Ledger) Len() int { return len(l.Total) }

func (l Ledger) KineticSum() float64   { return sum(l.Kinetic) }
func (l Ledger) PotentialSum() float64 { return sum(l.Potential) }

// Accountant computes energy ledgers. Softening should match the value used
// by the force pass; with Softening == 0 two distinct particles at the same
// position give an infinite potential term.
type Accountant struct {
	Softening float64
	Backend   compute.Backend
}

func NewAccountant(softening float64, backend compute.Backend) *Accountant {
	if backend == nil {
		backend = compute.Serial{}
	}
	return &Accountant{Softening: softening, Backend: backend}
}

// KineticEnergy returns 0.5 m |v|² for each particle.
func (a *Accountant) KineticEnergy(ps []body.Particle) []float64 {
	ke := make([]float64, len(ps))
	for i := range ps {
		ke[i] = kinetic(&ps[i])
	}
	return ke
}

// PotentialEnergy returns, for each particle i, the sum over j != i of
// -0.5 m_i m_j / d_ij. Each bond is split evenly between its two ends, so the
// sequence sums to the system potential counted once per pair.
func (a *Accountant) PotentialEnergy(ps []body.Particle) []float64 {
	pe := make([]float64, len(ps))
	for i := range ps {
		for j := range ps {
			if i == j {
				continue
			}
			pe[i] += 0.5 * physics.PairPotential(&ps[i], &ps[j], a.Softening)
		}
	}
	return pe
}

// KineticEnergyParallel is KineticEnergy on the accountant's backend. Each
// chunk writes a disjoint index range.
func (a *Accountant) KineticEnergyParallel(ps []body.Particle) []float64 {
	ke := make([]float64, len(ps))
	a.backend().For(len(ps), func(_, start, end int) {
		for i := start; i < end; i++ {
			ke[i] = kinetic(&ps[i])
		}
	})
	return ke
}

// PotentialEnergyParallel walks each pair once (i < j) and credits half the
// bond to both ends. Row k of the triangle is paired with row n-1-k, so every
// unit of work covers n-1 pairs and contiguous chunks stay balanced.
// Contributions land in per-chunk buffers merged after the join.
func (a *Accountant) PotentialEnergyParallel(ps []body.Particle) []float64 {
	n, eps := len(ps), a.Softening
	row := func(i int, local []float64) {
		for j := i + 1; j < n; j++ {
			half := 0.5 * physics.PairPotential(&ps[i], &ps[j], eps)
			local[i] += half
			local[j] += half
		}
	}
	return compute.Reduce(a.backend(), (n+1)/2, n, func(start, end int, local []float64) {
		for k := start; k < end; k++ {
			row(k, local)
			if mirror := n - 1 - k; mirror != k {
				row(mirror, local)
			}
		}
	})
}

// TotalEnergy adds kinetic and potential sequences elementwise. Both must come
// from the same snapshot.
func TotalEnergy(kinetic, potential []float64) ([]float64, error) {
	if len(kinetic) != len(potential) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLedgerMismatch, len(kinetic), len(potential))
	}
	total := make([]float64, len(kinetic))
	for i := range kinetic {
		total[i] = kinetic[i] + potential[i]
	}
	return total, nil
}

func SumTotalEnergy(total []float64) float64 { return sum(total) }

// Snapshot computes a full ledger sequentially.
func (a *Accountant) Snapshot(ps []body.Particle) Ledger {
	return newLedger(a.KineticEnergy(ps), a.PotentialEnergy(ps))
}

// SnapshotParallel computes a full ledger on the accountant's backend.
func (a *Accountant) SnapshotParallel(ps []body.Particle) Ledger {
	return newLedger(a.KineticEnergyParallel(ps), a.PotentialEnergyParallel(ps))
}

// Drift returns the percentage change 100 * (final - initial) / initial.
func Drift(initial, final float64) (float64, error) {
	if initial == 0 {
		return 0, ErrZeroBaseline
	}
	return 100 * (final - initial) / initial, nil
}

func (a *Accountant) backend() compute.Backend {
	if a.Backend == nil {
		return compute.Serial{}
	}
	return a.Backend
}

func newLedger(ke, pe []float64) Ledger {
	// lengths match by construction
	total, _ := TotalEnergy(ke, pe)
	return Ledger{Kinetic: ke, Potential: pe, Total: total, Sum: SumTotalEnergy(total)}
}

func kinetic(p *body.Particle) float64 {
	return 0.5 * p.Mass * p.Speed2()
}

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}

// relDiff is |a-b| / max(|a|, |b|), zero when both are zero.
func relDiff(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}
