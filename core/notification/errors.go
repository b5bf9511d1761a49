package notification

import (
	"errors"

	"github.com/dmitrymomot/intercomm/core/kind"
)

var (
	// ErrAlreadySubscribed is returned by Subscribe when the kind already has a live subscriber.
	ErrAlreadySubscribed = kind.Sentinel("already subscribed", kind.ErrAlreadyAttached)

	// ErrNotSubscribed is returned by Notify when the kind has no subscriber.
	ErrNotSubscribed = kind.Sentinel("not subscribed", kind.ErrNotAttached)

	// ErrSendFailed is returned by Notify when the subscriber closed between lookup and delivery.
	ErrSendFailed = kind.Sentinel("send failed", kind.ErrSendFailed)

	// ErrSubscriptionClosed is returned when using a subscription after Close.
	ErrSubscriptionClosed = kind.Sentinel("subscription closed", kind.ErrClosed)

	// ErrFull is returned by TryNotify when the subscriber's bounded mailbox has no free slot.
	ErrFull = errors.New("subscriber mailbox full")

	// ErrEmpty is returned by TryRecv when no notification is pending.
	ErrEmpty = errors.New("no pending notification")
)
