package utils

import (
	"context"
	"sync"
)

// DefaultSemaphoreLimit bounds fan-out concurrency when a caller passes no
// explicit limit.
const DefaultSemaphoreLimit = 8

// ConcurrentExecutor runs functions concurrently under a semaphore.
type ConcurrentExecutor struct {
	semaphore chan struct{}
}

// NewConcurrentExecutor creates an executor allowing at most maxConcurrency
// functions in flight.
func NewConcurrentExecutor(maxConcurrency int) *ConcurrentExecutor {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultSemaphoreLimit
	}
	return &ConcurrentExecutor{semaphore: make(chan struct{}, maxConcurrency)}
}

// Execute runs the functions concurrently and returns one error slot per
// function, index-aligned. Panics are recovered into PanicError; a canceled
// context marks the not-yet-started functions with ctx.Err().
func (e *ConcurrentExecutor) Execute(ctx context.Context, functions ...func() error) []error {
	if len(functions) == 0 {
		return nil
	}

	results := make([]error, len(functions))
	var wg sync.WaitGroup

	for i, fn := range functions {
		wg.Add(1)
		go func(index int, function func() error) {
			defer wg.Done()
			defer RecoverWithCallback(func(err error) {
				results[index] = err
			})

			select {
			case e.semaphore <- struct{}{}:
				defer func() { <-e.semaphore }()
			case <-ctx.Done():
				results[index] = ctx.Err()
				return
			}

			results[index] = function()
		}(i, fn)
	}

	wg.Wait()
	return results
}

// ExecuteWithResults runs the functions concurrently and returns their
// values and errors, both index-aligned with the input.
func ExecuteWithResults[T any](ctx context.Context, maxConcurrency int, functions ...func() (T, error)) ([]T, []error) {
	if len(functions) == 0 {
		return nil, nil
	}

	executor := NewConcurrentExecutor(maxConcurrency)
	values := make([]T, len(functions))
	errs := make([]error, len(functions))

	wrapped := make([]func() error, len(functions))
	for i, fn := range functions {
		i, fn := i, fn
		wrapped[i] = func() error {
			v, err := fn()
			values[i] = v
			return err
		}
	}
	for i, err := range executor.Execute(ctx, wrapped...) {
		errs[i] = err
	}
	return values, errs
}
