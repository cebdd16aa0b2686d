// Package workpool bounds how much blocking work runs at once.
package workpool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 4

// Pool admits at most Size units of work at a time. Work must not submit
// more work to the same pool while it holds a slot.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New returns a pool admitting n concurrent jobs.
func New(n int) *Pool {
	if n <= 0 {
		n = DefaultSize
	}
	return &Pool{sem: semaphore.NewWeighted(int64(n)), size: n}
}

// Size is the number of concurrent slots.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.size
}

// Run waits for a slot and runs fn in the caller's goroutine.
// A nil pool runs fn immediately.
func (p *Pool) Run(ctx context.Context, fn func(context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Do is Run for work that produces a value.
func Do[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}
