package broadcast

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/registry"
	"github.com/dmitrymomot/intercomm/pkg/fanout"
)

// Subscription is one subscriber of a broadcast kind.
// It is owned by the goroutine that created it and must be closed when no longer needed.
type Subscription[P any] struct {
	id      uuid.UUID
	kind    *Kind[P]
	cell    *registry.Cell
	rx      *fanout.Receiver[P]
	missed  atomic.Uint64
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

// ID returns the unique handle ID, used in log records.
func (s *Subscription[P]) ID() uuid.UUID {
	return s.id
}

// Missed returns how many payloads were skipped because the subscription lagged.
func (s *Subscription[P]) Missed() uint64 {
	return s.missed.Load()
}

// Recv returns the next payload, waiting while none is pending.
// Lag is absorbed: skipped payloads are counted in Missed and Recv carries on with
// the oldest payload still available.
func (s *Subscription[P]) Recv(ctx context.Context) (P, error) {
	defer runtime.KeepAlive(s)

	var zero P
	for {
		v, err := s.rx.Recv(ctx)
		if err == nil {
			return v, nil
		}

		var lagged *fanout.LaggedError
		switch {
		case errors.As(err, &lagged):
			s.missed.Add(lagged.Missed)
			logger.Default().DebugContext(ctx, "broadcast subscription lagged",
				logger.Kind(s.kind.Name()),
				logger.HandleID(s.id),
				logger.Missed(lagged.Missed))
		case errors.Is(err, fanout.ErrClosed):
			return zero, s.kind.Error("recv", ErrSubscriptionClosed)
		default:
			return zero, err
		}
	}
}

// TryRecv returns the next payload without waiting, or ErrEmpty.
// Lag is absorbed as in Recv.
func (s *Subscription[P]) TryRecv() (P, error) {
	defer runtime.KeepAlive(s)

	var zero P
	for {
		v, err := s.rx.TryRecv()
		if err == nil {
			return v, nil
		}

		var lagged *fanout.LaggedError
		switch {
		case errors.As(err, &lagged):
			s.missed.Add(lagged.Missed)
		case errors.Is(err, fanout.ErrEmpty):
			return zero, ErrEmpty
		case errors.Is(err, fanout.ErrClosed):
			return zero, s.kind.Error("recv", ErrSubscriptionClosed)
		default:
			return zero, err
		}
	}
}

// Close detaches the subscriber. Closing the last subscriber of a kind removes
// the kind's registry entry.
func (s *Subscription[P]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return s.kind.Error("close", ErrSubscriptionClosed)
	}
	s.cleanup.Stop()

	remaining := s.rx.Close()
	if remaining == 0 {
		senders().RemoveCell(s.kind.ID(), s.cell, idle)
	}

	logger.Default().Debug("broadcast subscription closed",
		logger.Kind(s.kind.Name()),
		logger.HandleID(s.id),
		logger.Receivers(remaining))

	return nil
}
