// Package compute runs fork-join data-parallel passes over index ranges.
//
// A [Backend] partitions [0, n) into contiguous chunks and runs one callback
// per chunk, returning only after every chunk has finished:
//
//	b := compute.Select(0) // one worker per CPU
//	b.For(len(particles), func(worker, start, end int) {
//	    for i := start; i < end; i++ {
//	        // write only to index i
//	    }
//	})
//
// Passes that scatter contributions across indices use [Reduce], which hands
// each chunk a private buffer and merges the buffers in chunk order after the
// join, so no accumulator is shared between goroutines.
//
// [Serial] runs everything on the calling goroutine and is the reference for
// equivalence tests.
package compute
