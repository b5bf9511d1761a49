package broadcast

import (
	"errors"

	"github.com/dmitrymomot/intercomm/core/kind"
)

var (
	// ErrSubscriptionClosed is returned when using a subscription after Close.
	ErrSubscriptionClosed = kind.Sentinel("subscription closed", kind.ErrClosed)

	// ErrEmpty is returned by TryRecv when no payload is pending.
	ErrEmpty = errors.New("no pending broadcast")
)
