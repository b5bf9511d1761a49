package notification

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/intercomm/core/kind"
	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/registry"
	"github.com/dmitrymomot/intercomm/pkg/mailbox"
)

// Kind is a declared notification kind carrying payloads of type P.
type Kind[P any] struct {
	kind.Descriptor
}

// Declare creates a new notification kind. The mailbox is unbounded unless
// kind.WithBufferSize sets a positive capacity.
func Declare[P any](name string, opts ...kind.Option) *Kind[P] {
	return &Kind[P]{Descriptor: kind.NewDescriptor(kind.Notification, name, opts...)}
}

// Subscribe is a shorthand for Subscribe(ctx, k).
func (k *Kind[P]) Subscribe(ctx context.Context) (*Subscription[P], error) {
	return Subscribe(ctx, k)
}

// Notify is a shorthand for Notify(ctx, k, payload).
func (k *Kind[P]) Notify(ctx context.Context, payload P) error {
	return Notify(ctx, k, payload)
}

// TryNotify is a shorthand for TryNotify(k, payload).
func (k *Kind[P]) TryNotify(payload P) error {
	return TryNotify(k, payload)
}

var subscribers = sync.OnceValue(func() *registry.Registry {
	return registry.New(registry.WithName(string(kind.Notification)))
})

// Stats returns statistics of the process-wide notification registry.
func Stats() registry.Stats {
	return subscribers().Stats()
}

// Sweep applies pending removals left by abandoned subscriptions and returns how
// many entries were evicted.
func Sweep() int {
	return subscribers().Sweep()
}

// Subscribe attaches the single subscriber of k.
// Returns ErrAlreadySubscribed while another subscription for k is open.
func Subscribe[P any](ctx context.Context, k *Kind[P]) (*Subscription[P], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cell, ok := subscribers().Insert(k.ID(), func() *registry.Cell {
		return registry.NewCell(k.Name(), mailbox.New[P](k.BufferSize()))
	})
	if !ok {
		return nil, k.Error("subscribe", ErrAlreadySubscribed)
	}

	s := &Subscription[P]{
		id:    uuid.New(),
		kind:  k,
		cell:  cell,
		inbox: registry.Load[*mailbox.Mailbox[P]](cell),
	}
	s.cleanup = runtime.AddCleanup(s, abandon[P], abandoned[P]{
		id:     k.ID(),
		name:   k.Name(),
		handle: s.id,
		cell:   cell,
		inbox:  s.inbox,
	})

	logger.Default().DebugContext(ctx, "notification subscribed",
		logger.Kind(k.Name()),
		logger.HandleID(s.id))

	return s, nil
}

// Notify queues payload for the subscriber of k, waiting for a free slot if the
// mailbox is bounded and full. Context errors are returned as is.
func Notify[P any](ctx context.Context, k *Kind[P], payload P) error {
	cell, ok := subscribers().Get(k.ID())
	if !ok {
		return k.Error("notify", ErrNotSubscribed)
	}

	inbox := registry.Load[*mailbox.Mailbox[P]](cell)
	if err := inbox.Send(ctx, payload); err != nil {
		if errors.Is(err, mailbox.ErrClosed) {
			return k.Error("notify", ErrSendFailed)
		}
		return err
	}

	return nil
}

// TryNotify queues payload without waiting. Returns ErrFull when the subscriber's
// bounded mailbox has no free slot.
func TryNotify[P any](k *Kind[P], payload P) error {
	cell, ok := subscribers().Get(k.ID())
	if !ok {
		return k.Error("notify", ErrNotSubscribed)
	}

	err := registry.Load[*mailbox.Mailbox[P]](cell).TrySend(payload)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mailbox.ErrFull):
		return k.Error("notify", ErrFull)
	default:
		return k.Error("notify", ErrSendFailed)
	}
}

// abandoned is what the cleanup of a dropped subscription needs.
// It must not reference the Subscription itself.
type abandoned[P any] struct {
	id     kind.ID
	name   string
	handle uuid.UUID
	cell   *registry.Cell
	inbox  *mailbox.Mailbox[P]
}

func abandon[P any](a abandoned[P]) {
	a.inbox.Close()
	subscribers().DeferRemoval(a.id, a.cell)

	logger.Default().Warn("notification subscription dropped without Close",
		logger.Kind(a.name),
		logger.HandleID(a.handle))
}
