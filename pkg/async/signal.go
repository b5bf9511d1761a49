package async

import "sync"

// Signal wakes every goroutine currently waiting on it.
//
// A waiter obtains the channel from Wait while it still holds the lock guarding the
// condition it waits for, releases that lock, then selects on the channel. Broadcast
// closes the current channel and installs a fresh one, so no wakeup issued after Wait
// returned can be missed.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewSignal creates a ready-to-use Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Wait returns a channel that is closed on the next Broadcast.
func (s *Signal) Wait() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch
}

// Broadcast wakes all current waiters.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.ch)
	s.ch = make(chan struct{})
}
