package kind

import "errors"

// Error taxonomy shared by all patterns.
var (
	// ErrAlreadyAttached is returned when a singleton consumer already exists for a kind.
	ErrAlreadyAttached = errors.New("already attached")

	// ErrNotAttached is returned when no consumer is attached to receive a message.
	ErrNotAttached = errors.New("not attached")

	// ErrSendFailed is returned when the consumer went away between lookup and delivery.
	ErrSendFailed = errors.New("send failed")

	// ErrNotResponded is returned when a request was dropped without a reply.
	ErrNotResponded = errors.New("not responded")

	// ErrClosed is returned when operating on a handle that was already closed.
	ErrClosed = errors.New("closed")
)

// Sentinel creates a package-level error with its own message that still matches
// class under errors.Is.
func Sentinel(msg string, class error) error {
	return &sentinel{msg: msg, class: class}
}

type sentinel struct {
	msg   string
	class error
}

func (e *sentinel) Error() string { return e.msg }
func (e *sentinel) Unwrap() error { return e.class }

// Error records a failed bus operation on a kind.
type Error struct {
	Op      string
	Kind    string
	Pattern Pattern
	Err     error
}

// Error formats as "<pattern> <kind> <op>: <cause>". The op is left out when it
// repeats the pattern name, as in "request Sum: not listened".
func (e *Error) Error() string {
	msg := string(e.Pattern) + " " + e.Kind
	if e.Op != "" && e.Op != string(e.Pattern) {
		msg += " " + e.Op
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
