// Package notification implements the single-consumer pattern of the bus.
//
// A notification kind has at most one live subscriber at a time. Any number of
// producers can notify it; payloads are queued in the subscriber's mailbox and
// received in FIFO order per producer.
//
// # Declaring a Kind
//
// Kinds are declared once, usually as package-level variables:
//
//	type Ready struct{ Worker string }
//
//	var ReadyKind = notification.Declare[Ready]("Ready")
//
// By default the mailbox is unbounded and Notify never waits. A bounded mailbox
// makes producers wait for a free slot:
//
//	var Jobs = notification.Declare[Job]("Jobs", kind.WithBufferSize(16))
//
// # Subscribing
//
//	sub, err := notification.Subscribe(ctx, ReadyKind)
//	if err != nil {
//		// errors.Is(err, notification.ErrAlreadySubscribed) when another owner exists
//		return err
//	}
//	defer sub.Close()
//
//	for {
//		r, err := sub.Recv(ctx)
//		if err != nil {
//			return err
//		}
//		log.Println("ready:", r.Worker)
//	}
//
// Close removes the kind's entry immediately, so a new owner can subscribe right
// after. A subscription that is garbage collected without Close is cleaned up
// lazily: its mailbox is closed and the entry is evicted by the next writer on
// the notification registry. A warning is logged in that case.
//
// # Notifying
//
//	if err := notification.Notify(ctx, ReadyKind, Ready{Worker: "w1"}); err != nil {
//		// errors.Is(err, notification.ErrNotSubscribed): nobody listens
//		// errors.Is(err, notification.ErrSendFailed):    the subscriber went away
//	}
//
// TryNotify never waits and fails with ErrFull instead when a bounded mailbox is
// full.
//
// The same operations are available as methods on the kind:
//
//	sub, err := ReadyKind.Subscribe(ctx)
//	err = ReadyKind.Notify(ctx, Ready{Worker: "w1"})
//	err = ReadyKind.TryNotify(Ready{Worker: "w2"})
package notification
