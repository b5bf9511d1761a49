// Package async provides small synchronization primitives built with Go generics.
//
// # Core Types
//
// Promise[T] is a one-shot reply slot: exactly one value (or an abandonment) can be
// written into it, and a single awaiting goroutine observes the outcome. It is the
// building block for request-response exchanges where the producer of the reply may
// disappear before answering.
//
// Signal is a wake-all notification used to build context-aware condition waits on top
// of an ordinary mutex.
//
// # Usage
//
// Reply slot:
//
//	reply := async.NewPromise[int]()
//
//	go func() {
//		// Resolve returns false if the awaiting side already gave up.
//		_ = reply.Resolve(42)
//	}()
//
//	v, err := reply.Await(ctx)
//	if errors.Is(err, async.ErrAbandoned) {
//		log.Println("no reply is coming")
//	}
//
// Waiting with a deadline goes through the context; the promise stays usable:
//
//	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
//	defer cancel()
//	v, err := reply.Await(ctx)
//
// Condition wait with a Signal:
//
//	mu.Lock()
//	for !ready {
//		wait := sig.Wait()
//		mu.Unlock()
//		select {
//		case <-wait:
//		case <-ctx.Done():
//			return ctx.Err()
//		}
//		mu.Lock()
//	}
//	mu.Unlock()
//
// # Error Handling
//
// ErrAbandoned is returned by Await when the writing side dropped the slot without
// resolving it. Context errors are returned as is.
//
// # Concurrency Safety
//
// All operations are safe for concurrent use. Promise uses sync.Once internally so
// that only the first of Resolve or Abandon takes effect.
package async
