// Package mailbox provides a generic FIFO queue with context-aware blocking.
//
// A Mailbox is created either bounded (a fixed number of slots; Send waits while the
// queue is full) or unbounded (capacity 0; Send never waits). Receivers wait while
// the queue is empty. Both sides honour context cancellation, and an abandoned wait
// leaves the queue untouched.
//
// # Usage
//
//	mb := mailbox.New[string](16)
//
//	go func() {
//		_ = mb.Send(ctx, "hello")
//	}()
//
//	msg, err := mb.Recv(ctx)
//
// # Closing
//
// Close is idempotent. It wakes every blocked sender and receiver, makes all further
// Send calls fail with ErrClosed, and hands the undelivered items back to the caller
// so they can be released explicitly:
//
//	for _, item := range mb.Close() {
//		item.Release()
//	}
//
// A Send that races with Close either lands in the returned slice or fails with
// ErrClosed; no item is ever left stranded in a closed mailbox.
//
// # Ordering
//
// Items sent by one goroutine are received in send order. Ordering between concurrent
// senders is unspecified.
package mailbox
