// Package parallel runs range-partitioned loops and reductions across CPUs.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, items) into at most runtime.NumCPU() contiguous
// chunks and runs fn on each chunk in its own goroutine. It returns once every
// chunk is done.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	var wg sync.WaitGroup
	for _, r := range chunks(items) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(r[0], r[1])
	}
	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold
// If below threshold, normal sequential processing is performed
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		// Sequential processing when below threshold
		fn(0, items)
		return
	}

	// Parallel processing when above threshold
	Parallelize(items, fn)
}

// chunks splits [0, items) into at most runtime.NumCPU() contiguous ranges.
func chunks(items int) [][2]int {
	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	ranges := make([][2]int, 0, numWorkers)
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// Reduce accumulates width partial sums over [0, items).
// fn adds the contribution of [start, end) into acc. Below threshold a single
// accumulator covers the whole range; above it each chunk gets its own
// accumulator and the partials are summed in chunk order, so the result is
// identical between runs on the same machine.
func Reduce(items, threshold, width int, fn func(start, end int, acc []float64)) []float64 {
	out := make([]float64, width)
	if items == 0 {
		return out
	}
	if items <= threshold {
		fn(0, items, out)
		return out
	}

	ranges := chunks(items)
	partials := make([][]float64, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		partials[i] = make([]float64, width)
		wg.Add(1)
		go func(acc []float64, s, e int) {
			defer wg.Done()
			fn(s, e, acc)
		}(partials[i], r[0], r[1])
	}
	wg.Wait()

	for _, p := range partials {
		for j, v := range p {
			out[j] += v
		}
	}
	return out
}
