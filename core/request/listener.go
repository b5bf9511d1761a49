package request

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/registry"
	"github.com/dmitrymomot/intercomm/pkg/mailbox"
)

// Listener is the single consumer of a request kind.
// It is owned by the goroutine that created it and must be closed when no longer needed.
type Listener[P, R any] struct {
	id      uuid.UUID
	kind    *Kind[P, R]
	cell    *registry.Cell
	inbox   *mailbox.Mailbox[*call[P, R]]
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

// ID returns the unique handle ID, used in log records.
func (l *Listener[P, R]) ID() uuid.UUID {
	return l.id
}

// Accept waits for the next request, computes its response with h and sends it
// back to the requester. Requests whose requester already gave up are skipped.
// A response the requester no longer waits for is discarded.
func (l *Listener[P, R]) Accept(ctx context.Context, h Handler[P, R]) error {
	defer runtime.KeepAlive(l)

	if l.closed.Load() {
		return l.kind.Error("accept", ErrListenerClosed)
	}

	for {
		c, err := l.inbox.Recv(ctx)
		if err != nil {
			if errors.Is(err, mailbox.ErrClosed) {
				return l.kind.Error("accept", ErrListenerClosed)
			}
			return err
		}

		if c.reply.Canceled() {
			logger.Default().DebugContext(ctx, "request skipped, requester gone",
				logger.Kind(l.kind.Name()),
				logger.RequestID(c.id.String()))
			continue
		}

		return l.handle(ctx, c, h)
	}
}

func (l *Listener[P, R]) handle(ctx context.Context, c *call[P, R], h Handler[P, R]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.reply.Abandon()
			logger.Default().ErrorContext(ctx, "request handler panicked",
				logger.Kind(l.kind.Name()),
				logger.HandleID(l.id),
				logger.RequestID(c.id.String()),
				logger.Key("panic", r),
				logger.Stack())
			err = l.kind.Error("accept", fmt.Errorf("%w: %v", ErrHandlerPanic, r))
		}
	}()

	if !c.reply.Resolve(h(ctx, c.payload)) {
		logger.Default().DebugContext(ctx, "response discarded, requester gone",
			logger.Kind(l.kind.Name()),
			logger.RequestID(c.id.String()))
	}
	return nil
}

// Serve accepts requests until ctx is done or the listener is closed, and then
// returns nil. Handler panics are logged and do not stop the loop.
func (l *Listener[P, R]) Serve(ctx context.Context, h Handler[P, R]) error {
	for {
		err := l.Accept(ctx, h)
		switch {
		case err == nil, errors.Is(err, ErrHandlerPanic):
			continue
		case errors.Is(err, ErrListenerClosed), ctx.Err() != nil:
			return nil
		default:
			return err
		}
	}
}

// Close detaches the listener and removes the kind's entry, so the kind can be
// listened again right away. Requests still queued fail with ErrNotResponded.
func (l *Listener[P, R]) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return l.kind.Error("close", ErrListenerClosed)
	}
	l.cleanup.Stop()

	dropped := abandonPending(l.inbox.Close())
	listeners().RemoveCell(l.kind.ID(), l.cell, nil)

	logger.Default().Debug("request listener closed",
		logger.Kind(l.kind.Name()),
		logger.HandleID(l.id),
		logger.Count("dropped", dropped))

	return nil
}
