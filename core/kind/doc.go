// Package kind defines message kind identity for the bus.
//
// A message kind is declared once, usually as a package-level variable, through one
// of the pattern packages (broadcast, notification, request). Each declaration
// receives an ID from a process-wide sequence at declaration time. The ID is the key
// under which the pattern's registry stores the kind's channel endpoint:
//
//   - one declaration always maps to the same ID for the lifetime of the process
//   - two declarations never share an ID, even if they use the same name or payload type
//
// The Descriptor embedded in every pattern kind carries the ID together with the
// kind's debug name, buffer size and pattern. The name is only used in log records
// and error messages.
//
// # Errors
//
// The package also defines the error taxonomy shared by all patterns:
//
//	errors.Is(err, kind.ErrAlreadyAttached) // a consumer is already attached
//	errors.Is(err, kind.ErrNotAttached)     // nobody is attached to receive
//	errors.Is(err, kind.ErrSendFailed)      // the consumer went away mid-delivery
//	errors.Is(err, kind.ErrNotResponded)    // a request was dropped without reply
//	errors.Is(err, kind.ErrClosed)          // the handle was already closed
//
// Pattern packages return *Error values that carry the operation and the kind's
// name, and wrap a pattern-specific sentinel that itself matches the taxonomy.
package kind
