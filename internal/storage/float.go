package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/gravsim/internal/metrics"
)

// Float is a float64 that survives JSON when it is not finite. NaN and ±Inf
// are written as the strings "NaN", "+Inf" and "-Inf"; a singular system
// with zero softening legitimately reports them.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = Float(math.NaN())
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("storage: bad float %q: %w", s, err)
		}
		*f = Float(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("storage: bad float %s: %w", data, err)
	}
	*f = Float(v)
	return nil
}

func floats(vs []float64) []Float {
	out := make([]Float, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

func float64s(fs []Float) []float64 {
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = float64(f)
	}
	return out
}

// Ledger is the stored form of a metrics.Ledger.
type Ledger struct {
	Kinetic   []Float `json:"kinetic"`
	Potential []Float `json:"potential"`
	Total     []Float `json:"total"`
	Sum       Float   `json:"sum"`
}

func ledgerOf(l metrics.Ledger) Ledger {
	return Ledger{
		Kinetic:   floats(l.Kinetic),
		Potential: floats(l.Potential),
		Total:     floats(l.Total),
		Sum:       Float(l.Sum),
	}
}

// Metrics converts back to the in-memory ledger.
func (l Ledger) Metrics() metrics.Ledger {
	return metrics.Ledger{
		Kinetic:   float64s(l.Kinetic),
		Potential: float64s(l.Potential),
		Total:     float64s(l.Total),
		Sum:       float64(l.Sum),
	}
}

func (l Ledger) Len() int { return len(l.Total) }

// Sample is the exported form of a metrics.Sample.
type Sample struct {
	Step      int   `json:"step"`
	Time      Float `json:"time"`
	Kinetic   Float `json:"kinetic"`
	Potential Float `json:"potential"`
	Total     Float `json:"total"`
}

func samplesOf(history []metrics.Sample) []Sample {
	out := make([]Sample, len(history))
	for i, s := range history {
		out[i] = Sample{
			Step:      s.Step,
			Time:      Float(s.Time),
			Kinetic:   Float(s.Kinetic),
			Potential: Float(s.Potential),
			Total:     Float(s.Total),
		}
	}
	return out
}

func floatMap(m map[string]float64) map[string]Float {
	out := make(map[string]Float, len(m))
	for k, v := range m {
		out[k] = Float(v)
	}
	return out
}

// Float64Metrics returns the metric values as plain floats.
func (m RunMetadata) Float64Metrics() map[string]float64 {
	out := make(map[string]float64, len(m.Metrics))
	for k, v := range m.Metrics {
		out[k] = float64(v)
	}
	return out
}
