package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// runBatch extracts every query on a pool of workers. Results keep input order.
func runBatch(ctx context.Context, queries []string, workers int, extract extractFunc) ([]extractOutput, error) {
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]extractOutput, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = extract(ctx, q)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to submit query %d: %w", i, err)
		}
	}
	wg.Wait()
	return results, nil
}
