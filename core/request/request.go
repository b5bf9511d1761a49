package request

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/intercomm/core/kind"
	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/registry"
	"github.com/dmitrymomot/intercomm/pkg/async"
	"github.com/dmitrymomot/intercomm/pkg/mailbox"
)

// Kind is a declared request kind with payload type P and response type R.
type Kind[P, R any] struct {
	kind.Descriptor
}

// Handler computes the response to one request.
type Handler[P, R any] func(ctx context.Context, payload P) R

// Declare creates a new request kind. The listener's mailbox is unbounded unless
// kind.WithBufferSize sets a positive capacity.
func Declare[P, R any](name string, opts ...kind.Option) *Kind[P, R] {
	return &Kind[P, R]{Descriptor: kind.NewDescriptor(kind.Request, name, opts...)}
}

// Listen is a shorthand for Listen(ctx, k).
func (k *Kind[P, R]) Listen(ctx context.Context) (*Listener[P, R], error) {
	return Listen(ctx, k)
}

// Request is a shorthand for Request(ctx, k, payload).
func (k *Kind[P, R]) Request(ctx context.Context, payload P) (R, error) {
	return Request(ctx, k, payload)
}

// call is one request in flight: the payload and the slot its reply goes to.
type call[P, R any] struct {
	id      uuid.UUID
	payload P
	reply   *async.Promise[R]
}

var listeners = sync.OnceValue(func() *registry.Registry {
	return registry.New(registry.WithName(string(kind.Request)))
})

// Stats returns statistics of the process-wide request registry.
func Stats() registry.Stats {
	return listeners().Stats()
}

// Sweep applies pending removals left by abandoned listeners and returns how many
// entries were evicted.
func Sweep() int {
	return listeners().Sweep()
}

// Listen attaches the single listener of k.
// Returns ErrAlreadyListened while another listener for k is open.
func Listen[P, R any](ctx context.Context, k *Kind[P, R]) (*Listener[P, R], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cell, ok := listeners().Insert(k.ID(), func() *registry.Cell {
		return registry.NewCell(k.Name(), mailbox.New[*call[P, R]](k.BufferSize()))
	})
	if !ok {
		return nil, k.Error("listen", ErrAlreadyListened)
	}

	l := &Listener[P, R]{
		id:    uuid.New(),
		kind:  k,
		cell:  cell,
		inbox: registry.Load[*mailbox.Mailbox[*call[P, R]]](cell),
	}
	l.cleanup = runtime.AddCleanup(l, abandon[P, R], abandoned[P, R]{
		id:     k.ID(),
		name:   k.Name(),
		handle: l.id,
		cell:   cell,
		inbox:  l.inbox,
	})

	logger.Default().DebugContext(ctx, "request listener attached",
		logger.Kind(k.Name()),
		logger.HandleID(l.id))

	return l, nil
}

// Request sends payload to the listener of k and waits for the response.
// Context errors are returned as is.
func Request[P, R any](ctx context.Context, k *Kind[P, R], payload P) (R, error) {
	var zero R

	cell, ok := listeners().Get(k.ID())
	if !ok {
		return zero, k.Error("request", ErrNotListened)
	}

	c := &call[P, R]{
		id:      uuid.New(),
		payload: payload,
		reply:   async.NewPromise[R](),
	}
	if err := registry.Load[*mailbox.Mailbox[*call[P, R]]](cell).Send(ctx, c); err != nil {
		if errors.Is(err, mailbox.ErrClosed) {
			return zero, k.Error("request", ErrSendFailed)
		}
		return zero, err
	}

	res, err := c.reply.Await(ctx)
	if err != nil {
		if errors.Is(err, async.ErrAbandoned) {
			return zero, k.Error("request", ErrNotResponded)
		}
		c.reply.Cancel()
		logger.Default().DebugContext(ctx, "request abandoned by requester",
			logger.Kind(k.Name()),
			logger.RequestID(c.id.String()),
			logger.Error(err))
		return zero, err
	}

	return res, nil
}

// abandonPending settles every queued call without a reply.
func abandonPending[P, R any](calls []*call[P, R]) int {
	for _, c := range calls {
		c.reply.Abandon()
	}
	return len(calls)
}

// abandoned is what the cleanup of a dropped listener needs.
// It must not reference the Listener itself.
type abandoned[P, R any] struct {
	id     kind.ID
	name   string
	handle uuid.UUID
	cell   *registry.Cell
	inbox  *mailbox.Mailbox[*call[P, R]]
}

func abandon[P, R any](a abandoned[P, R]) {
	dropped := abandonPending(a.inbox.Close())
	listeners().DeferRemoval(a.id, a.cell)

	logger.Default().Warn("request listener dropped without Close",
		logger.Kind(a.name),
		logger.HandleID(a.handle),
		logger.Count("dropped", dropped))
}
