package kind

// Pattern names the delivery pattern a kind belongs to.
type Pattern string

const (
	Broadcast    Pattern = "broadcast"
	Notification Pattern = "notification"
	Request      Pattern = "request"
)

// Descriptor is the runtime description of a declared message kind.
type Descriptor struct {
	id         ID
	name       string
	bufferSize int
	pattern    Pattern
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithBufferSize sets how many messages can be queued without waiting for the
// consumer. 0 means unbounded where the pattern allows it.
func WithBufferSize(n int) Option {
	return func(d *Descriptor) {
		d.bufferSize = n
	}
}

// NewDescriptor declares a new kind. Panics if the buffer size is negative.
// An empty name falls back to the ID's string form.
func NewDescriptor(p Pattern, name string, opts ...Option) Descriptor {
	d := Descriptor{
		id:      NewID(),
		name:    name,
		pattern: p,
	}

	for _, opt := range opts {
		opt(&d)
	}

	if d.bufferSize < 0 {
		panic("kind: buffer size must not be negative")
	}
	if d.name == "" {
		d.name = d.id.String()
	}

	return d
}

// ID returns the kind's registry key.
func (d Descriptor) ID() ID { return d.id }

// Name returns the debug name.
func (d Descriptor) Name() string { return d.name }

// BufferSize returns the configured buffer size.
func (d Descriptor) BufferSize() int { return d.bufferSize }

// Pattern returns the pattern the kind was declared for.
func (d Descriptor) Pattern() Pattern { return d.pattern }

// Error wraps err with the operation and this kind's name.
func (d Descriptor) Error(op string, err error) error {
	return &Error{Op: op, Kind: d.name, Pattern: d.pattern, Err: err}
}
