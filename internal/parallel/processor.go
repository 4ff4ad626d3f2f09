package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Result holds the outcome of processing a single item
type Result[T, R any] struct {
	Item   T
	Result R
	Error  error
}

// ProcessFunc is the function type for processing a single item
type ProcessFunc[T, R any] func(ctx context.Context, item T) (R, error)

// Processor runs a function over a slice of items with a bounded worker pool.
// Results always come back in input order.
type Processor struct {
	workers int
}

// Option configures a Processor
type Option func(*Processor)

// New creates a new Processor with the given options
func New(opts ...Option) *Processor {
	p := &Processor{
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithWorkers sets the number of workers
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// Process applies fn to every item. Items not started before ctx is
// cancelled get ctx.Err() as their error.
func Process[T, R any](ctx context.Context, p *Processor, items []T, fn ProcessFunc[T, R]) []Result[T, R] {
	if len(items) == 0 {
		return nil
	}

	numWorkers := p.workers
	if numWorkers > len(items) {
		numWorkers = len(items)
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	results := make([]Result[T, R], len(items))

	// Each worker writes only its own indexes, so no lock is needed
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				item := items[idx]
				if err := ctx.Err(); err != nil {
					results[idx] = Result[T, R]{Item: item, Error: err}
					continue
				}
				r, err := fn(ctx, item)
				results[idx] = Result[T, R]{Item: item, Result: r, Error: err}
			}
		}()
	}
	wg.Wait()

	return results
}

// AggregateError collects multiple errors from parallel processing
type AggregateError struct {
	Errors []error
}

// Error implements the error interface
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return e.Errors[0].Error() + " (and more errors)"
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (e *AggregateError) Unwrap() []error { return e.Errors }

// HasErrors returns true if there are any errors
func (e *AggregateError) HasErrors() bool {
	return len(e.Errors) > 0
}

// CollectErrors extracts errors from results
func CollectErrors[T, R any](results []Result[T, R]) *AggregateError {
	var errs []error
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error)
		}
	}
	return &AggregateError{Errors: errs}
}
