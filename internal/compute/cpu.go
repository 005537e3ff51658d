package compute

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CPUBackend runs chunks on a bounded set of goroutines.
type CPUBackend struct {
	workers  int
	minChunk int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers, minChunk: 1}
}

// WithMinChunk sets the smallest range a chunk may cover; ranges shorter than
// two chunks run inline.
func (c *CPUBackend) WithMinChunk(n int) *CPUBackend {
	c.minChunk = n
	return c
}

func (c *CPUBackend) Name() string { return fmt.Sprintf("cpu(%d)", c.workers) }
func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) For(n int, fn func(worker, start, end int)) {
	spans := partition(n, c.workers, c.minChunk)
	if len(spans) == 0 {
		return
	}
	if len(spans) == 1 {
		fn(0, spans[0].start, spans[0].end)
		return
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	for w, s := range spans {
		g.Go(func() error {
			fn(w, s.start, s.end)
			return nil
		})
	}
	_ = g.Wait()
}
