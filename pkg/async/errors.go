package async

import "errors"

// ErrAbandoned is returned by Await when the promise was dropped without a value.
var ErrAbandoned = errors.New("promise abandoned")
