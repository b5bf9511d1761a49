package mailbox

import "errors"

var (
	// ErrClosed is returned by Send and Recv once the mailbox is closed.
	ErrClosed = errors.New("mailbox closed")

	// ErrFull is returned by TrySend when a bounded mailbox has no free slot.
	ErrFull = errors.New("mailbox full")

	// ErrEmpty is returned by TryRecv when there is nothing to receive.
	ErrEmpty = errors.New("mailbox empty")
)
