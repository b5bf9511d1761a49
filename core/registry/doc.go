// Package registry implements the concurrent, kind-indexed table of channel endpoints
// that backs every delivery pattern.
//
// A Registry maps a kind.ID to a Cell, a type-erased container holding the
// producer-visible half of one channel (a fan-out sender or a mailbox). Each pattern
// package owns one process-wide Registry, created lazily on first use.
//
// # Locking
//
// Lookups from producers take the shared lock only. Structural changes (insert,
// remove) take the exclusive lock. GetOrCreate is double-checked: an optimistic
// shared-lock lookup first, then lookup-or-insert under the exclusive lock.
//
// # Deferred Removal
//
// Consumer handles that are dropped without Close are torn down from a context that
// must not wait on the registry lock. Such teardown calls DeferRemoval, which only
// appends to a small pending list guarded by its own mutex and raises a dirty flag.
// The next exclusive-lock acquisition for any reason (insert, remove, Sweep) drains
// that list first, so stale entries are reclaimed by whichever writer comes next.
//
// Each pending removal remembers the cell it was issued for. Draining removes the
// entry only if the map still holds that same cell and the registry's evictable
// predicate agrees, so a late teardown never removes an entry that a new consumer
// has since created.
//
// # Type Erasure
//
// Cells store values as any. Load recovers the concrete type with a checked type
// assertion and panics with a descriptive message on mismatch. Because every kind
// declaration has its own ID and always stores the same concrete type, a mismatch
// indicates a bug in the bus itself rather than in caller code.
package registry
