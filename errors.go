package intercomm

import "errors"

var (
	// ErrJanitorAlreadyStarted is returned when starting a janitor that is already running.
	ErrJanitorAlreadyStarted = errors.New("janitor already started")

	// ErrJanitorNotStarted is returned when stopping a janitor that is not running.
	ErrJanitorNotStarted = errors.New("janitor not started")

	// ErrJanitorNotRunning is returned by Healthcheck when sweeping is configured but not running.
	ErrJanitorNotRunning = errors.New("janitor not running")

	// ErrInvalidSweepInterval is returned by Start when the sweep interval is not positive.
	ErrInvalidSweepInterval = errors.New("sweep interval must be positive")

	// ErrShutdownTimeout is returned by Stop when an in-progress sweep outlives the timeout.
	ErrShutdownTimeout = errors.New("shutdown timeout exceeded")

	// ErrHealthcheckFailed is returned by Healthcheck when the bus is unhealthy.
	ErrHealthcheckFailed = errors.New("healthcheck failed")
)
