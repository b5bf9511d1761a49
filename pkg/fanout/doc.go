// Package fanout provides a generic multi-producer, multi-consumer broadcast channel.
//
// Every value sent through a Sender is delivered to every Receiver that was attached
// when the value was sent. Values live in a fixed-size ring shared by all receivers,
// so sending never blocks: a receiver that falls behind by more than the ring
// capacity misses the oldest values instead of stalling producers.
//
// # Usage
//
//	tx := fanout.New[string](16)
//
//	rx := tx.Subscribe()
//	defer rx.Close()
//
//	tx.Send("hello")
//
//	msg, err := rx.Recv(ctx)
//
// # Slow Consumers
//
// When a receiver lags, Recv returns a *LaggedError reporting how many values were
// skipped and moves the receiver forward to the oldest value still in the ring. The
// next Recv continues from there:
//
//	for {
//		msg, err := rx.Recv(ctx)
//		var lagged *fanout.LaggedError
//		if errors.As(err, &lagged) {
//			log.Printf("skipped %d messages", lagged.Missed)
//			continue
//		}
//		if err != nil {
//			return err
//		}
//		handle(msg)
//	}
//
// # Performance Characteristics
//
// - Send is O(1) regardless of the number of receivers
// - Each receiver keeps only a cursor into the shared ring
// - Values are retained until overwritten, so memory is bounded by the capacity
//
// # Thread Safety
//
// Sender and Receiver are safe for concurrent use across goroutines.
package fanout
