package metrics

import "github.com/san-kum/gravsim/internal/body"

// Sample is one point of an energy history.
type Sample struct {
	Step      int     `json:"step"`
	Time      float64 `json:"time"`
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
	Total     float64 `json:"total"`
}

// EnergyHistory records system-wide energy sums each time it is observed.
type EnergyHistory struct {
	accountant *Accountant
	samples    []Sample
}

func NewEnergyHistory(a *Accountant) *EnergyHistory {
	return &EnergyHistory{accountant: a}
}

func (h *EnergyHistory) OnStep(step int, ps []body.Particle, t float64) {
	l := h.accountant.Snapshot(ps)
	h.samples = append(h.samples, Sample{
		Step:      step,
		Time:      t,
		Kinetic:   l.KineticSum(),
		Potential: l.PotentialSum(),
		Total:     l.Sum,
	})
}

func (h *EnergyHistory) Samples() []Sample { return h.samples }

// Totals returns the total energy column of samples.
func Totals(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Total
	}
	return out
}

func (h *EnergyHistory) Reset() { h.samples = h.samples[:0] }
