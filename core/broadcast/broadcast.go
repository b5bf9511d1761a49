package broadcast

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/intercomm/core/kind"
	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/registry"
	"github.com/dmitrymomot/intercomm/pkg/fanout"
)

// Kind is a declared broadcast kind carrying payloads of type P.
type Kind[P any] struct {
	kind.Descriptor
}

// Declare creates a new broadcast kind whose ring holds bufferSize payloads.
// Panics if bufferSize is less than 1.
func Declare[P any](name string, bufferSize int) *Kind[P] {
	if bufferSize < 1 {
		panic("broadcast: buffer size must be at least 1")
	}
	return &Kind[P]{Descriptor: kind.NewDescriptor(kind.Broadcast, name, kind.WithBufferSize(bufferSize))}
}

// Subscribe is a shorthand for Subscribe(ctx, k).
func (k *Kind[P]) Subscribe(ctx context.Context) *Subscription[P] {
	return Subscribe(ctx, k)
}

// Notify is a shorthand for Notify(ctx, k, payload).
func (k *Kind[P]) Notify(ctx context.Context, payload P) int {
	return Notify(ctx, k, payload)
}

var senders = sync.OnceValue(func() *registry.Registry {
	return registry.New(
		registry.WithName(string(kind.Broadcast)),
		registry.WithEvictable(idle),
	)
})

// idle reports whether nobody is attached to the cell's sender.
func idle(c *registry.Cell) bool {
	s, ok := registry.TryLoad[interface{ ReceiverCount() int }](c)
	return !ok || s.ReceiverCount() == 0
}

// Stats returns statistics of the process-wide broadcast registry.
func Stats() registry.Stats {
	return senders().Stats()
}

// Sweep applies pending removals left by abandoned subscriptions and returns how
// many entries were evicted.
func Sweep() int {
	return senders().Sweep()
}

// Subscribe attaches a new subscriber to k. It never fails.
// The subscription observes payloads notified after this call.
func Subscribe[P any](ctx context.Context, k *Kind[P]) *Subscription[P] {
	var rx *fanout.Receiver[P]
	cell, created := senders().GetOrCreate(k.ID(),
		func() *registry.Cell {
			return registry.NewCell(k.Name(), fanout.New[P](k.BufferSize()))
		},
		func(c *registry.Cell) {
			rx = registry.Load[*fanout.Sender[P]](c).Subscribe()
		},
	)

	s := &Subscription[P]{
		id:   uuid.New(),
		kind: k,
		cell: cell,
		rx:   rx,
	}
	s.cleanup = runtime.AddCleanup(s, abandon[P], abandoned[P]{
		id:     k.ID(),
		name:   k.Name(),
		handle: s.id,
		cell:   cell,
		rx:     rx,
	})

	logger.Default().DebugContext(ctx, "broadcast subscribed",
		logger.Kind(k.Name()),
		logger.HandleID(s.id),
		logger.Key("created", created))

	return s
}

// Notify delivers payload to every subscriber of k and returns how many were
// attached. It never waits. Without subscribers it does nothing and returns 0.
func Notify[P any](ctx context.Context, k *Kind[P], payload P) int {
	cell, ok := senders().Get(k.ID())
	if !ok {
		return 0
	}

	n := registry.Load[*fanout.Sender[P]](cell).Send(payload)
	logger.Default().DebugContext(ctx, "broadcast notified",
		logger.Kind(k.Name()),
		logger.Receivers(n))
	return n
}

// abandoned is what the cleanup of a dropped subscription needs.
// It must not reference the Subscription itself.
type abandoned[P any] struct {
	id     kind.ID
	name   string
	handle uuid.UUID
	cell   *registry.Cell
	rx     *fanout.Receiver[P]
}

func abandon[P any](a abandoned[P]) {
	remaining := a.rx.Close()
	if remaining == 0 {
		senders().DeferRemoval(a.id, a.cell)
	}

	logger.Default().Warn("broadcast subscription dropped without Close",
		logger.Kind(a.name),
		logger.HandleID(a.handle),
		logger.Receivers(remaining))
}
