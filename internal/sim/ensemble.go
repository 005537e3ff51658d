package sim

import (
	"math"
	"sync"

	"github.com/san-kum/gravsim/internal/initcond"
	"go.uber.org/zap"
)

// Ensemble repeats a run over consecutive seeds, one goroutine per run.
type Ensemble struct {
	opts      initcond.Options
	numRuns   int
	seedStart int64
	logger    *zap.Logger
}

func NewEnsemble(opts initcond.Options, numRuns int, seedStart int64, logger *zap.Logger) *Ensemble {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ensemble{opts: opts, numRuns: numRuns, seedStart: seedStart, logger: logger}
}

func (e *Ensemble) Run(cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			opts := e.opts
			opts.Seed = e.seedStart + int64(idx)
			gen, err := initcond.New(opts)
			if err != nil {
				errs[idx] = err
				return
			}

			s := New(gen, WithLogger(e.logger.With(zap.Int64("seed", opts.Seed))))
			results[idx], errs[idx] = s.Run(cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// DriftStats summarises the energy drift percentages of an ensemble.
type DriftStats struct {
	Runs   int
	Mean   float64
	StdDev float64
	MaxAbs float64
}

func SummarizeDrift(results []*Result) DriftStats {
	st := DriftStats{Runs: len(results)}
	if st.Runs == 0 {
		return st
	}
	for _, r := range results {
		st.Mean += r.DriftPercent
		st.MaxAbs = math.Max(st.MaxAbs, math.Abs(r.DriftPercent))
	}
	st.Mean /= float64(st.Runs)
	for _, r := range results {
		d := r.DriftPercent - st.Mean
		st.StdDev += d * d
	}
	st.StdDev = math.Sqrt(st.StdDev / float64(st.Runs))
	return st
}
