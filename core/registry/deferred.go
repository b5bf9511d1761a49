package registry

import (
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/intercomm/core/kind"
)

type pendingRemoval struct {
	id   kind.ID
	cell *Cell
}

// deferredQueue collects removals requested from contexts that cannot wait on the
// registry lock. push never blocks on anything but a short critical section.
type deferredQueue struct {
	mu    sync.Mutex
	items []pendingRemoval
	dirty atomic.Bool
}

func (q *deferredQueue) push(id kind.ID, c *Cell) {
	q.mu.Lock()
	q.items = append(q.items, pendingRemoval{id: id, cell: c})
	q.dirty.Store(true)
	q.mu.Unlock()
}

// take returns and clears the pending list. The fast path is a single atomic load.
func (q *deferredQueue) take() []pendingRemoval {
	if !q.dirty.Load() {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	q.dirty.Store(false)
	return items
}

func (q *deferredQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
