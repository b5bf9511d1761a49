package registry

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/intercomm/core/kind"
	"github.com/dmitrymomot/intercomm/core/logger"
)

// Registry is a concurrently readable, exclusively writable map from kind.ID to Cell.
// At most one Cell exists per ID at any instant.
type Registry struct {
	name      string
	mu        sync.RWMutex
	entries   map[kind.ID]*Cell
	pending   deferredQueue
	evictable func(*Cell) bool
	logger    *slog.Logger

	// Observability metrics
	created atomic.Int64
	removed atomic.Int64
	evicted atomic.Int64
}

// Stats provides observability metrics for monitoring and debugging.
type Stats struct {
	Entries         int   // Current number of entries
	PendingRemovals int   // Deferred removals waiting for the next exclusive lock
	Created         int64 // Total number of entries created
	Removed         int64 // Total number of entries removed by Remove/RemoveCell
	Evicted         int64 // Total number of entries removed by draining deferred removals
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		name:      "registry",
		entries:   make(map[kind.ID]*Cell),
		evictable: func(*Cell) bool { return true },
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Get looks up the cell for id under the shared lock.
func (r *Registry) Get(id kind.ID) (*Cell, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.entries[id]
	return c, ok
}

// GetOrCreate returns the cell for id, creating it with create if absent.
// attach, when non-nil, runs on the resulting cell while the lock that found or
// created it is still held, so the cell cannot be removed in between.
// The returned bool reports whether the cell was created by this call.
func (r *Registry) GetOrCreate(id kind.ID, create func() *Cell, attach func(*Cell)) (*Cell, bool) {
	r.mu.RLock()
	if c, ok := r.entries[id]; ok {
		if attach != nil {
			attach(c)
		}
		r.mu.RUnlock()
		return c, false
	}
	r.mu.RUnlock()

	r.lock()
	defer r.mu.Unlock()

	if c, ok := r.entries[id]; ok {
		if attach != nil {
			attach(c)
		}
		return c, false
	}

	c := create()
	r.entries[id] = c
	r.created.Add(1)
	if attach != nil {
		attach(c)
	}
	r.log().Debug("registry entry created",
		logger.Component(r.name),
		logger.Kind(c.Name()),
		logger.Identity(id))
	return c, true
}

// Insert adds a cell created by create if id has no entry yet.
// It reports false, without calling create, when an entry already exists.
func (r *Registry) Insert(id kind.ID, create func() *Cell) (*Cell, bool) {
	r.lock()
	defer r.mu.Unlock()

	if c, ok := r.entries[id]; ok {
		return c, false
	}

	c := create()
	r.entries[id] = c
	r.created.Add(1)
	r.log().Debug("registry entry created",
		logger.Component(r.name),
		logger.Kind(c.Name()),
		logger.Identity(id))
	return c, true
}

// Remove deletes the entry for id unconditionally and reports whether one existed.
func (r *Registry) Remove(id kind.ID) bool {
	r.lock()
	defer r.mu.Unlock()

	c, ok := r.entries[id]
	if !ok {
		return false
	}
	r.deleteLocked(id, c, &r.removed, "registry entry removed")
	return true
}

// RemoveCell deletes the entry for id only if it is still c and cond, when non-nil,
// holds under the exclusive lock.
func (r *Registry) RemoveCell(id kind.ID, c *Cell, cond func(*Cell) bool) bool {
	r.lock()
	defer r.mu.Unlock()

	if cur, ok := r.entries[id]; !ok || cur != c {
		return false
	}
	if cond != nil && !cond(c) {
		return false
	}
	r.deleteLocked(id, c, &r.removed, "registry entry removed")
	return true
}

// DeferRemoval schedules removal of c under id for the next exclusive lock holder.
// It never touches the registry lock and is safe to call from cleanup functions.
func (r *Registry) DeferRemoval(id kind.ID, c *Cell) {
	r.pending.push(id, c)
}

// Sweep takes the exclusive lock, which applies any pending removals, and returns
// how many entries were evicted.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drainLocked()
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Stats returns current registry statistics.
func (r *Registry) Stats() Stats {
	return Stats{
		Entries:         r.Len(),
		PendingRemovals: r.pending.len(),
		Created:         r.created.Load(),
		Removed:         r.removed.Load(),
		Evicted:         r.evicted.Load(),
	}
}

// lock acquires the exclusive lock and applies pending removals before returning.
func (r *Registry) lock() {
	r.mu.Lock()
	r.drainLocked()
}

func (r *Registry) drainLocked() int {
	items := r.pending.take()
	if len(items) == 0 {
		return 0
	}

	evicted := 0
	for _, p := range items {
		cur, ok := r.entries[p.id]
		if !ok || cur != p.cell || !r.evictable(cur) {
			continue
		}
		r.deleteLocked(p.id, cur, &r.evicted, "registry entry evicted")
		evicted++
	}
	return evicted
}

func (r *Registry) deleteLocked(id kind.ID, c *Cell, counter *atomic.Int64, msg string) {
	delete(r.entries, id)
	counter.Add(1)
	r.log().Debug(msg,
		logger.Component(r.name),
		logger.Kind(c.Name()),
		logger.Identity(id))
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logger.Default()
}
