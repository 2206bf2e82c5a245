package worker

import (
	"context"
	"sync"
)

// Map runs fn over items with at most workers concurrent executions.
// Results are positional: results[i] always corresponds to items[i]
// regardless of completion order, so callers that parallelize external
// calls keep their claim-to-result mapping intact. workers <= 1 degrades
// to strictly sequential execution.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	if workers <= 1 {
		for i, item := range items {
			results[i] = fn(ctx, item)
		}
		return results
	}

	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()

			// Cancellation wins over an available slot
			select {
			case <-ctx.Done():
				return
			default:
			}

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = fn(ctx, it)
		}(i, item)
	}

	wg.Wait()
	return results
}
