// Package parallel splits row ranges across goroutines.
//
// Callers pass an explicit worker count; one worker (the default everywhere
// in this module) runs the function inline on the calling goroutine.
package parallel

import (
	"runtime"
	"sync"
)

// Workers resolves a job count the way scikit-learn's n_jobs does:
// -1 means every CPU, values below 1 mean one worker.
func Workers(nJobs int) int {
	if nJobs == -1 {
		return runtime.NumCPU()
	}
	if nJobs < 1 {
		return 1
	}
	return nJobs
}

// Parallelize divides items into contiguous [start, end) chunks and runs fn
// on each chunk with at most workers goroutines. fn must only touch the rows
// in its own range.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if workers > items {
		workers = items
	}
	if workers <= 1 {
		fn(0, items)
		return
	}

	// ceiling division
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn inline when items <= threshold and fans
// out to workers otherwise.
func ParallelizeWithThreshold(items, threshold, workers int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, workers, fn)
}
