package registry

import "log/slog"

// Option configures a Registry.
type Option func(*Registry)

// WithName sets the registry name used in log records, usually the pattern name.
func WithName(name string) Option {
	return func(r *Registry) {
		if name != "" {
			r.name = name
		}
	}
}

// WithLogger sets a dedicated logger. By default the registry logs to logger.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithEvictable sets the predicate a pending removal must satisfy, evaluated under
// the exclusive lock while draining. By default every pending cell is evictable.
func WithEvictable(fn func(*Cell) bool) Option {
	return func(r *Registry) {
		if fn != nil {
			r.evictable = fn
		}
	}
}
