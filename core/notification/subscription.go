package notification

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/registry"
	"github.com/dmitrymomot/intercomm/pkg/mailbox"
)

// Subscription is the single consumer of a notification kind.
// It is owned by the goroutine that created it and must be closed when no longer needed.
type Subscription[P any] struct {
	id      uuid.UUID
	kind    *Kind[P]
	cell    *registry.Cell
	inbox   *mailbox.Mailbox[P]
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

// ID returns the unique handle ID, used in log records.
func (s *Subscription[P]) ID() uuid.UUID {
	return s.id
}

// Recv returns the next payload, waiting while none is queued.
// Canceling ctx leaves the subscription untouched.
func (s *Subscription[P]) Recv(ctx context.Context) (P, error) {
	defer runtime.KeepAlive(s)

	var zero P
	if s.closed.Load() {
		return zero, s.kind.Error("recv", ErrSubscriptionClosed)
	}

	v, err := s.inbox.Recv(ctx)
	if err != nil {
		if errors.Is(err, mailbox.ErrClosed) {
			return zero, s.kind.Error("recv", ErrSubscriptionClosed)
		}
		return zero, err
	}
	return v, nil
}

// TryRecv returns the next payload without waiting, or ErrEmpty.
func (s *Subscription[P]) TryRecv() (P, error) {
	defer runtime.KeepAlive(s)

	var zero P
	v, err := s.inbox.TryRecv()
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, mailbox.ErrEmpty):
		return zero, ErrEmpty
	default:
		return zero, s.kind.Error("recv", ErrSubscriptionClosed)
	}
}

// Close detaches the subscriber and removes the kind's entry, so the kind can be
// subscribed again right away. Payloads still queued are discarded.
func (s *Subscription[P]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return s.kind.Error("close", ErrSubscriptionClosed)
	}
	s.cleanup.Stop()

	dropped := len(s.inbox.Close())
	subscribers().RemoveCell(s.kind.ID(), s.cell, nil)

	logger.Default().Debug("notification subscription closed",
		logger.Kind(s.kind.Name()),
		logger.HandleID(s.id),
		logger.Count("dropped", dropped))

	return nil
}
