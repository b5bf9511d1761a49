package kind

import (
	"strconv"
	"sync/atomic"
)

var lastID atomic.Uint64

// ID identifies a declared message kind. The zero ID is never assigned.
type ID struct {
	seq uint64
}

// NewID allocates a fresh ID.
func NewID() ID {
	return ID{seq: lastID.Add(1)}
}

// IsZero reports whether id was never assigned.
func (id ID) IsZero() bool {
	return id.seq == 0
}

func (id ID) String() string {
	return "kind#" + strconv.FormatUint(id.seq, 10)
}
