// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Features
//
//   - Logger construction with functional options (level, format, output, attributes)
//   - A process-wide bus logger shared by the registry and pattern packages
//   - Attribute helpers for common fields, returning an empty Attr for nil or zero input
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/intercomm/core/logger"
//
//	log := logger.New(
//		logger.WithLevelName("debug"),
//		logger.WithJSONFormatter(),
//	)
//
//	// Route bus diagnostics (entry eviction, abandoned handles, handler panics) to log.
//	logger.SetDefault(log)
//
// The bus logger discards everything until SetDefault is called, so libraries built on
// the bus stay silent by default.
//
// # Attribute Helpers
//
//	log.Warn("subscription abandoned without Close",
//		logger.Pattern("notification"),
//		logger.Kind("Ready"),
//		logger.HandleID(id),
//	)
//
//	log.Error("request handler panicked",
//		logger.Kind("Sum"),
//		logger.RequestID(reqID),
//		logger.Key("panic", r),
//		logger.Stack(),
//	)
package logger
