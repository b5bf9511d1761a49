package intercomm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/intercomm/core/broadcast"
	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/notification"
	"github.com/dmitrymomot/intercomm/core/registry"
	"github.com/dmitrymomot/intercomm/core/request"
)

// Configure installs the process-wide bus logger described by cfg and returns it.
func Configure(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithLevelName(cfg.LogLevel),
		logger.WithAttr(logger.Component("intercomm")),
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		opts = append(opts, logger.WithJSONFormatter())
	} else {
		opts = append(opts, logger.WithTextFormatter())
	}

	l := logger.New(opts...)
	logger.SetDefault(l)
	return l
}

// BusStats aggregates the statistics of all pattern registries.
type BusStats struct {
	Broadcast    registry.Stats
	Notification registry.Stats
	Request      registry.Stats
}

// Entries returns the number of live entries across all patterns.
func (s BusStats) Entries() int {
	return s.Broadcast.Entries + s.Notification.Entries + s.Request.Entries
}

// PendingRemovals returns the number of deferred removals not applied yet.
func (s BusStats) PendingRemovals() int {
	return s.Broadcast.PendingRemovals + s.Notification.PendingRemovals + s.Request.PendingRemovals
}

// Stats returns current statistics of the process-wide registries.
func Stats() BusStats {
	return BusStats{
		Broadcast:    broadcast.Stats(),
		Notification: notification.Stats(),
		Request:      request.Stats(),
	}
}

// Sweep applies pending removals on every pattern registry and returns how many
// entries were evicted in total.
func Sweep() int {
	return broadcast.Sweep() + notification.Sweep() + request.Sweep()
}

// Healthcheck reports whether the bus is operational. A nil janitor is allowed;
// otherwise the janitor's own healthcheck is included.
func Healthcheck(ctx context.Context, j *Janitor) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	if j == nil {
		return nil
	}
	return j.Healthcheck(ctx)
}
