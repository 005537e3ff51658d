package compute

// Reduce runs fn over [0, n) with a private accumulator of length size per
// chunk, then sums the accumulators in chunk order. fn may add to any index
// of its local buffer; it must not touch shared state.
func Reduce(b Backend, n, size int, fn func(start, end int, local []float64)) []float64 {
	locals := make([][]float64, b.Workers())
	b.For(n, func(worker, start, end int) {
		local := make([]float64, size)
		fn(start, end, local)
		locals[worker] = local
	})

	out := make([]float64, size)
	for _, local := range locals {
		for i, v := range local {
			out[i] += v
		}
	}
	return out
}
