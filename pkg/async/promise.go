package async

import (
	"context"
	"sync"
	"sync/atomic"
)

// Promise is a single-use reply slot. One side settles it with Resolve or Abandon,
// the other side waits for the outcome with Await.
type Promise[T any] struct {
	value    T
	err      error
	once     sync.Once
	done     chan struct{}
	canceled atomic.Bool
}

// NewPromise creates an unsettled promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolve stores the value and wakes the awaiting side.
// It reports false when the promise was already settled or the awaiting side
// canceled; in that case the value is discarded.
func (p *Promise[T]) Resolve(v T) bool {
	if p.canceled.Load() {
		return false
	}
	return p.settle(v, nil)
}

// Abandon settles the promise without a value. Await then returns ErrAbandoned.
func (p *Promise[T]) Abandon() bool {
	var zero T
	return p.settle(zero, ErrAbandoned)
}

// Cancel marks the awaiting side as gone. Later calls to Resolve report false.
func (p *Promise[T]) Cancel() {
	p.canceled.Store(true)
}

// Canceled reports whether the awaiting side gave up.
func (p *Promise[T]) Canceled() bool {
	return p.canceled.Load()
}

func (p *Promise[T]) settle(v T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value = v
		p.err = err
		settled = true
		close(p.done)
	})
	return settled
}

// Await blocks until the promise is settled or the context is done.
// Context errors are returned as is and leave the promise untouched.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
