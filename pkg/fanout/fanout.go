package fanout

import (
	"context"
	"sync"

	"github.com/dmitrymomot/intercomm/pkg/async"
)

// Sender is the producing side of a broadcast channel. It owns the ring shared by
// all receivers.
type Sender[T any] struct {
	mu        sync.Mutex
	ring      []T
	tail      uint64 // sequence number of the next value written
	receivers int
	sent      *async.Signal
}

// New creates a Sender whose ring holds capacity values.
// Panics if capacity is less than 1.
func New[T any](capacity int) *Sender[T] {
	if capacity < 1 {
		panic("fanout: capacity must be at least 1")
	}

	return &Sender[T]{
		ring: make([]T, capacity),
		sent: async.NewSignal(),
	}
}

// Send delivers v to all attached receivers and returns how many there are.
// Send never blocks; with no receivers attached the value is dropped.
// The ring keeps the last capacity values reachable until they are overwritten or the
// last receiver closes.
func (s *Sender[T]) Send(v T) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.receivers == 0 {
		return 0
	}

	s.ring[s.tail%uint64(len(s.ring))] = v
	s.tail++
	s.sent.Broadcast()
	return s.receivers
}

// Subscribe attaches a new receiver. It observes values sent after this call.
func (s *Sender[T]) Subscribe() *Receiver[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.receivers++
	return &Receiver[T]{sender: s, next: s.tail}
}

// ReceiverCount returns the number of attached receivers.
func (s *Sender[T]) ReceiverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receivers
}

// Receiver is one consumer's view of a broadcast channel.
type Receiver[T any] struct {
	sender *Sender[T]
	next   uint64
	closed bool
}

// Recv returns the next value, waiting while none is pending.
// If the receiver fell behind, Recv returns a *LaggedError and skips forward;
// the receiver stays usable.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	s := r.sender
	for {
		s.mu.Lock()
		v, err := r.take()
		if err != ErrEmpty {
			s.mu.Unlock()
			return v, err
		}
		wait := s.sent.Wait()
		s.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryRecv returns the next value without waiting, or ErrEmpty.
func (r *Receiver[T]) TryRecv() (T, error) {
	r.sender.mu.Lock()
	defer r.sender.mu.Unlock()

	return r.take()
}

// take expects the sender lock to be held. It returns ErrEmpty when nothing is pending.
func (r *Receiver[T]) take() (v T, err error) {
	s := r.sender
	if r.closed {
		return v, ErrClosed
	}

	capacity := uint64(len(s.ring))
	if s.tail-r.next > capacity {
		oldest := s.tail - capacity
		missed := oldest - r.next
		r.next = oldest
		return v, &LaggedError{Missed: missed}
	}
	if r.next == s.tail {
		return v, ErrEmpty
	}

	v = s.ring[r.next%capacity]
	r.next++
	return v, nil
}

// Close detaches the receiver and returns how many receivers remain attached.
// Calling Close more than once is safe.
func (r *Receiver[T]) Close() int {
	s := r.sender
	s.mu.Lock()
	defer s.mu.Unlock()

	if !r.closed {
		r.closed = true
		s.receivers--
		if s.receivers == 0 {
			// Nobody can read the ring anymore: new receivers start at tail.
			clear(s.ring)
		}
		s.sent.Broadcast()
	}
	return s.receivers
}
