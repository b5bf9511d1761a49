package request

import (
	"errors"

	"github.com/dmitrymomot/intercomm/core/kind"
)

var (
	// ErrAlreadyListened is returned by Listen when the kind already has a live listener.
	ErrAlreadyListened = kind.Sentinel("already listened", kind.ErrAlreadyAttached)

	// ErrNotListened is returned by Request when the kind has no listener.
	ErrNotListened = kind.Sentinel("not listened", kind.ErrNotAttached)

	// ErrSendFailed is returned by Request when the listener closed between lookup and delivery.
	ErrSendFailed = kind.Sentinel("send failed", kind.ErrSendFailed)

	// ErrNotResponded is returned by Request when the request was dropped without a reply.
	ErrNotResponded = kind.Sentinel("not responded", kind.ErrNotResponded)

	// ErrListenerClosed is returned when using a listener after Close.
	ErrListenerClosed = kind.Sentinel("listener closed", kind.ErrClosed)

	// ErrHandlerPanic is returned by Accept when the handler panicked.
	ErrHandlerPanic = errors.New("request handler panicked")
)
