package mailbox

import (
	"context"
	"sync"

	"github.com/dmitrymomot/intercomm/pkg/async"
)

// Unbounded is the capacity value for a mailbox whose Send never waits.
const Unbounded = 0

// Mailbox is a multi-producer FIFO queue. The zero value is not usable; call New.
type Mailbox[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	closed   bool
	changed  *async.Signal
}

// New creates a mailbox with the given number of slots.
// A capacity of 0 (Unbounded) creates an unbounded mailbox.
func New[T any](capacity int) *Mailbox[T] {
	if capacity < 0 {
		panic("mailbox: capacity must not be negative")
	}

	return &Mailbox[T]{
		capacity: capacity,
		changed:  async.NewSignal(),
	}
}

// Send enqueues v, waiting for a free slot if the mailbox is bounded and full.
// Returns ErrClosed if the mailbox is or becomes closed, or the context error.
func (m *Mailbox[T]) Send(ctx context.Context, v T) error {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return ErrClosed
		}
		if m.hasRoom() {
			m.push(v)
			m.mu.Unlock()
			return nil
		}
		wait := m.changed.Wait()
		m.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// TrySend enqueues v without waiting.
func (m *Mailbox[T]) TrySend(v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if !m.hasRoom() {
		return ErrFull
	}
	m.push(v)
	return nil
}

// Recv dequeues the oldest item, waiting while the mailbox is empty.
// Returns ErrClosed once the mailbox is closed, or the context error.
func (m *Mailbox[T]) Recv(ctx context.Context) (T, error) {
	for {
		m.mu.Lock()
		if len(m.items) > 0 {
			v := m.pop()
			m.mu.Unlock()
			return v, nil
		}
		if m.closed {
			m.mu.Unlock()
			var zero T
			return zero, ErrClosed
		}
		wait := m.changed.Wait()
		m.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryRecv dequeues the oldest item without waiting.
func (m *Mailbox[T]) TryRecv() (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if len(m.items) > 0 {
		return m.pop(), nil
	}
	if m.closed {
		return zero, ErrClosed
	}
	return zero, ErrEmpty
}

// Close closes the mailbox and returns the items nobody received.
// Subsequent calls return nil.
func (m *Mailbox[T]) Close() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	left := m.items
	m.items = nil
	m.changed.Broadcast()
	return left
}

// Len returns the number of queued items.
func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Mailbox[T]) hasRoom() bool {
	return m.capacity == Unbounded || len(m.items) < m.capacity
}

// push and pop expect m.mu to be held.
func (m *Mailbox[T]) push(v T) {
	m.items = append(m.items, v)
	m.changed.Broadcast()
}

func (m *Mailbox[T]) pop() T {
	var zero T
	v := m.items[0]
	m.items[0] = zero
	m.items = m.items[1:]
	if len(m.items) == 0 {
		m.items = nil
	}
	m.changed.Broadcast()
	return v
}
