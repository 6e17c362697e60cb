// Package workerpool provides bounded-concurrency iteration helpers on top
// of an ants goroutine pool. Fan-out width is a parameter, not something
// callers re-implement with hand-rolled chunking.
package workerpool

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
)

const DefaultWidth = 10

// ForEach runs fn for every index in [0, n) with at most width tasks in
// flight. It waits for all tasks, then returns the first error observed.
// A canceled ctx stops new submissions but lets in-flight tasks finish.
func ForEach(ctx context.Context, n, width int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if width < 1 {
		width = DefaultWidth
	}
	if width > n {
		width = n
	}

	pool, err := ants.NewPool(width)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			record(err)
			break
		}

		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			record(fn(ctx, i))
		}); err != nil {
			wg.Done()
			record(err)
			break
		}
	}

	wg.Wait()
	return firstErr
}

// Map runs fn over inputs with bounded width and preserves input order in
// the result slice. Per-item errors are returned positionally so callers
// can keep partial results. Items never submitted, e.g. after a ctx
// cancellation, carry the run error instead of a silent zero value.
func Map[In, Out any](ctx context.Context, inputs []In, width int, fn func(ctx context.Context, in In) (Out, error)) ([]Out, []error) {
	results := make([]Out, len(inputs))
	errs := make([]error, len(inputs))
	ran := make([]bool, len(inputs))

	runErr := ForEach(ctx, len(inputs), width, func(ctx context.Context, i int) error {
		out, err := fn(ctx, inputs[i])
		results[i] = out
		errs[i] = err
		ran[i] = true
		return nil
	})
	if runErr != nil {
		for i := range errs {
			if !ran[i] && errs[i] == nil {
				errs[i] = runErr
			}
		}
	}

	return results, errs
}
