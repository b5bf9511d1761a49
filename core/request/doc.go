// Package request implements the request-response pattern of the bus.
//
// A request kind has at most one live listener at a time, like a notification
// kind. Every request carries its own reply slot: Request queues the payload in
// the listener's mailbox and waits until the listener's handler has computed the
// response.
//
// # Usage
//
//	type Pair struct{ A, B int }
//
//	var Sum = request.Declare[Pair, int]("Sum")
//
//	// listener side
//	l, err := request.Listen(ctx, Sum)
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//
//	go l.Serve(ctx, func(ctx context.Context, p Pair) int {
//		return p.A + p.B
//	})
//
//	// requester side
//	sum, err := request.Request(ctx, Sum, Pair{A: 5, B: 10}) // 15
//
// # Errors
//
// Request fails with:
//   - ErrNotListened when the kind has no listener
//   - ErrSendFailed when the listener closed between lookup and delivery
//   - ErrNotResponded when the listener dropped the request without replying,
//     for example because it was closed with the request still queued or its
//     handler panicked
//
// Canceling the requester's context abandons the wait. A listener that has not
// picked the request up yet skips it; a response computed after the requester
// gave up is discarded.
//
// Handler panics are recovered by Accept, which returns ErrHandlerPanic; Serve
// logs them and keeps serving.
package request
