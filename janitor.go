package intercomm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/intercomm/core/broadcast"
	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/notification"
	"github.com/dmitrymomot/intercomm/core/request"
)

// SweepFunc applies pending removals on one registry and returns how many
// entries it evicted.
type SweepFunc func() int

// Janitor periodically applies deferred removals on the pattern registries.
//
// Deferred removals are normally applied by the next writer on a registry. A
// registry without further writes would keep stale entries of abandoned handles
// forever; the janitor bounds that time to one sweep interval.
type Janitor struct {
	mu sync.RWMutex

	// Configuration
	interval        time.Duration
	shutdownTimeout time.Duration
	sweepers        []SweepFunc
	logger          *slog.Logger

	// State management
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	// Observability metrics
	sweeps    atomic.Int64
	evicted   atomic.Int64
	lastSweep atomic.Int64 // unix nanoseconds
}

// JanitorStats provides observability metrics for monitoring and debugging.
type JanitorStats struct {
	Sweeps    int64     // Total number of sweeps performed
	Evicted   int64     // Total number of entries evicted by sweeps
	LastSweep time.Time // Time of the last sweep, zero if none yet
	IsRunning bool      // Whether the sweep loop is running
}

// JanitorOption configures a Janitor.
type JanitorOption func(*Janitor)

// WithSweepInterval sets how often registries are swept.
// Set to 0 to disable sweeping; Start then fails with ErrInvalidSweepInterval.
func WithSweepInterval(interval time.Duration) JanitorOption {
	return func(j *Janitor) {
		j.interval = interval
	}
}

// WithJanitorShutdownTimeout sets how long Stop waits for an in-progress sweep.
func WithJanitorShutdownTimeout(timeout time.Duration) JanitorOption {
	return func(j *Janitor) {
		if timeout > 0 {
			j.shutdownTimeout = timeout
		}
	}
}

// WithJanitorLogger sets a dedicated logger. By default the janitor logs to logger.Default().
func WithJanitorLogger(l *slog.Logger) JanitorOption {
	return func(j *Janitor) {
		if l != nil {
			j.logger = l
		}
	}
}

// WithSweepers replaces the swept registries. By default the broadcast,
// notification and request registries are swept.
func WithSweepers(fns ...SweepFunc) JanitorOption {
	return func(j *Janitor) {
		if len(fns) > 0 {
			j.sweepers = fns
		}
	}
}

// NewJanitor creates a janitor. Call Start or Run to begin sweeping.
func NewJanitor(opts ...JanitorOption) *Janitor {
	cfg := DefaultConfig()
	j := &Janitor{
		interval:        cfg.SweepInterval,
		shutdownTimeout: cfg.ShutdownTimeout,
		sweepers:        []SweepFunc{broadcast.Sweep, notification.Sweep, request.Sweep},
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// NewJanitorFromConfig creates a janitor using the sweep interval and shutdown
// timeout from cfg.
func NewJanitorFromConfig(cfg Config, opts ...JanitorOption) *Janitor {
	return NewJanitor(append([]JanitorOption{
		WithSweepInterval(cfg.SweepInterval),
		WithJanitorShutdownTimeout(cfg.ShutdownTimeout),
	}, opts...)...)
}

// Start runs the sweep loop. This is a blocking operation that runs until the
// context is cancelled or Stop is called. Use Run() for errgroup pattern or call
// this in a goroutine.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.cancel != nil {
		j.mu.Unlock()
		return ErrJanitorAlreadyStarted
	}

	if j.interval <= 0 {
		j.mu.Unlock()
		return fmt.Errorf("%w: got %v", ErrInvalidSweepInterval, j.interval)
	}

	j.ctx, j.cancel = context.WithCancel(ctx)
	loopCtx := j.ctx
	j.mu.Unlock()

	j.running.Store(true)
	defer j.running.Store(false)

	j.log().InfoContext(loopCtx, "janitor started",
		logger.Duration(j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			j.log().InfoContext(context.Background(), "janitor stopping")
			return loopCtx.Err()
		case <-ticker.C:
			j.sweepWithWait()
		}
	}
}

// Stop gracefully shuts down the sweep loop with a timeout.
func (j *Janitor) Stop() error {
	j.mu.Lock()
	if j.cancel == nil {
		j.mu.Unlock()
		return ErrJanitorNotStarted
	}

	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), j.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		stats := j.Stats()
		j.log().InfoContext(context.Background(), "janitor stopped",
			logger.Group("stats",
				slog.Int64("sweeps", stats.Sweeps),
				slog.Int64("evicted", stats.Evicted)))
		return nil
	case <-ctx.Done():
		j.log().WarnContext(context.Background(), "janitor shutdown timeout exceeded",
			logger.Duration(j.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, j.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the loop, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (j *Janitor) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- j.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = j.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Sweep applies pending removals on all swept registries right away.
func (j *Janitor) Sweep() int {
	start := time.Now()
	evicted := 0
	for _, fn := range j.sweepers {
		evicted += fn()
	}

	j.sweeps.Add(1)
	j.evicted.Add(int64(evicted))
	j.lastSweep.Store(time.Now().UnixNano())

	j.log().Debug("janitor sweep finished",
		logger.Action("sweep"),
		logger.Count("evicted", evicted),
		logger.Elapsed(start))
	return evicted
}

// Stats returns current janitor statistics.
func (j *Janitor) Stats() JanitorStats {
	var last time.Time
	if ns := j.lastSweep.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}

	return JanitorStats{
		Sweeps:    j.sweeps.Load(),
		Evicted:   j.evicted.Load(),
		LastSweep: last,
		IsRunning: j.running.Load(),
	}
}

// Healthcheck validates that the janitor is operational.
// A janitor with sweeping disabled is always healthy.
func (j *Janitor) Healthcheck(ctx context.Context) error {
	if j.interval > 0 && !j.Stats().IsRunning {
		return errors.Join(ErrHealthcheckFailed, ErrJanitorNotRunning)
	}
	return nil
}

// sweepWithWait tracks an in-progress sweep so Stop can wait for it.
func (j *Janitor) sweepWithWait() {
	j.mu.RLock()
	if j.cancel == nil {
		j.mu.RUnlock()
		return
	}
	j.wg.Add(1)
	j.mu.RUnlock()

	defer j.wg.Done()
	j.Sweep()
}

func (j *Janitor) log() *slog.Logger {
	if j.logger != nil {
		return j.logger
	}
	return logger.Default()
}
