package fanout

import (
	"errors"
	"strconv"
)

var (
	// ErrClosed is returned by Recv on a receiver that was closed.
	ErrClosed = errors.New("fanout receiver closed")

	// ErrEmpty is returned by TryRecv when no value is pending.
	ErrEmpty = errors.New("fanout receiver empty")
)

// LaggedError reports that a receiver fell behind and values were skipped.
type LaggedError struct {
	Missed uint64
}

func (e *LaggedError) Error() string {
	return "fanout receiver lagged by " + strconv.FormatUint(e.Missed, 10) + " messages"
}
