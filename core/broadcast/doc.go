// Package broadcast implements the fan-out pattern of the bus.
//
// Every subscription of a broadcast kind receives every payload notified while it
// is attached. Producers never wait: each kind has a ring of BufferSize payloads
// shared by all its subscribers, and a subscriber that falls more than BufferSize
// payloads behind skips forward to the oldest payload still in the ring instead of
// stalling the producers.
//
// # Usage
//
//	var Shutdown = broadcast.Declare[struct{}]("Shutdown", 1)
//
//	// consumer
//	sub := broadcast.Subscribe(ctx, Shutdown)
//	defer sub.Close()
//
//	if _, err := sub.Recv(ctx); err != nil {
//		return err
//	}
//
//	// producer
//	n := broadcast.Notify(ctx, Shutdown, struct{}{}) // n subscribers reached
//
// Notify on a kind without subscribers is a no-op and returns 0; the payload is
// dropped.
//
// # Lag
//
// Recv absorbs lag transparently and returns the next payload still available.
// TryRecv does the same without waiting and returns ErrEmpty when nothing is pending.
// Missed reports how many payloads the subscription skipped so far.
//
// # Lifecycle
//
// The kind's registry entry is created by the first Subscribe and removed when the
// last subscription closes. A subscription that is garbage collected without Close
// detaches itself lazily and logs a warning; the entry is evicted by the next writer
// on the broadcast registry if no other subscriber attached in the meantime.
package broadcast
