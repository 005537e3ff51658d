package compute

import "runtime"

// Backend runs index ranges, serially or on a worker pool.
type Backend interface {
	Name() string
	Workers() int
	// For runs fn over [0, n) split into at most Workers() chunks. The worker
	// argument is the chunk index, stable for the duration of the call.
	For(n int, fn func(worker, start, end int))
}

// Select returns a serial backend for workers == 1 and a CPU pool otherwise.
// workers <= 0 means one worker per CPU.
func Select(workers int) Backend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		return Serial{}
	}
	return NewCPUBackend(workers)
}

// Serial runs the whole range as one chunk on the calling goroutine.
type Serial struct{}

func (Serial) Name() string { return "serial" }
func (Serial) Workers() int { return 1 }

func (Serial) For(n int, fn func(worker, start, end int)) {
	if n <= 0 {
		return
	}
	fn(0, 0, n)
}

type span struct{ start, end int }

func partition(n, workers, minChunk int) []span {
	if n <= 0 {
		return nil
	}
	if minChunk < 1 {
		minChunk = 1
	}
	chunks := workers
	if n/minChunk < chunks {
		chunks = n / minChunk
	}
	if chunks < 1 {
		chunks = 1
	}

	size := (n + chunks - 1) / chunks
	spans := make([]span, 0, chunks)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, span{start, end})
	}
	return spans
}
