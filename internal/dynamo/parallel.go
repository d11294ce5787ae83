package dynamo

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Ensemble runs independent simulations concurrently. Every run gets its own
// Simulator from the factory, so integrators with scratch buffers and
// stateful metrics are never shared between goroutines.
type Ensemble struct {
	factory   func() *Simulator
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory func() *Simulator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// Run starts run i from initial(i, seed) with cfg.Seed = seedStart+i.
func (e *Ensemble) Run(ctx context.Context, initial func(run int, seed int64) State, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	ParallelFor(e.numRuns, 1, func(start, end int) {
		for idx := start; idx < end; idx++ {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s := e.factory()
			results[idx], errs[idx] = s.Run(ctx, initial(idx, cfgCopy.Seed), cfgCopy)
		}
	})

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// ParallelFor executes a function in parallel over a range [0, n)
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
