package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configures ProcessParallel.
type ParallelOptions struct {
	// MaxWorkers caps the number of goroutines; <= 0 means DefaultOptions().MaxWorkers.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 4,
	}
}

// ProcessParallel runs itemFunc over items with a bounded worker pool and
// returns results in input order. Items not started before ctx is done are
// skipped; their slot keeps the zero value and ctx.Err() is reported once.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultOptions().MaxWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	type result struct {
		index int
		value R
		err   error
	}

	jobs := make(chan int, len(items))
	results := make(chan result, len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				v, err := itemFunc(ctx, i, items[i])
				results <- result{index: i, value: v, err: err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	done := 0
	for res := range results {
		done++
		if res.err != nil {
			errs = append(errs, res.err)
		}
		out[res.index] = res.value
	}
	if done < len(items) && ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	return out, errs
}
