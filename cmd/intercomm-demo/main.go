// Command intercomm-demo wires two request listeners, a readiness notification
// and a shutdown broadcast together on the in-process bus.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/intercomm"
	"github.com/dmitrymomot/intercomm/core/broadcast"
	"github.com/dmitrymomot/intercomm/core/kind"
	"github.com/dmitrymomot/intercomm/core/logger"
	"github.com/dmitrymomot/intercomm/core/notification"
	"github.com/dmitrymomot/intercomm/core/request"
)

type operands struct {
	A, B int
}

var (
	Sum   = request.Declare[operands, int]("Sum", kind.WithBufferSize(4))
	Mul   = request.Declare[operands, int]("Mul", kind.WithBufferSize(4))
	Ready = notification.Declare[struct{}]("Ready", kind.WithBufferSize(2))
	Close = broadcast.Declare[struct{}]("Close", 1)
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := intercomm.LoadConfig()
	if err != nil {
		return err
	}
	log := intercomm.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ready, err := Ready.Subscribe(ctx)
	if err != nil {
		return err
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.SweepInterval > 0 {
		g.Go(intercomm.NewJanitorFromConfig(cfg).Run(janitorCtx))
	}
	g.Go(func() error {
		return listen(gctx, log, Sum, func(_ context.Context, p operands) int {
			fmt.Printf("Sum requested with: (%d, %d)\n", p.A, p.B)
			return p.A + p.B
		})
	})
	g.Go(func() error {
		return listen(gctx, log, Mul, func(_ context.Context, p operands) int {
			fmt.Printf("Mul requested with: (%d, %d)\n", p.A, p.B)
			return p.A * p.B
		})
	})

	g.Go(func() error {
		defer stopJanitor()

		for range 2 {
			if _, err := ready.Recv(gctx); err != nil {
				return err
			}
		}
		if err := ready.Close(); err != nil {
			return err
		}

		sum, err := Sum.Request(gctx, operands{A: 5, B: 10})
		if err != nil {
			return err
		}
		fmt.Printf("5 + 10 = %d\n", sum)

		mul, err := Mul.Request(gctx, operands{A: 5, B: 10})
		if err != nil {
			return err
		}
		fmt.Printf("5 * 10 = %d\n", mul)

		n := Close.Notify(gctx, struct{}{})
		log.InfoContext(gctx, "shutdown broadcast sent", logger.Receivers(n))
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("bus drained", logger.Count("entries", intercomm.Stats().Entries()))
	return nil
}

// listen serves k until the Close broadcast arrives or ctx is done.
func listen(ctx context.Context, log *slog.Logger, k *request.Kind[operands, int], h request.Handler[operands, int]) error {
	l, err := k.Listen(ctx)
	if err != nil {
		return err
	}
	defer l.Close()

	closing := Close.Subscribe(ctx)
	defer closing.Close()

	if err := Ready.Notify(ctx, struct{}{}); err != nil {
		return err
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if _, err := closing.Recv(serveCtx); err == nil {
			log.InfoContext(ctx, "listener closing", logger.Kind(k.Name()))
		}
		cancel()
	}()

	return l.Serve(serveCtx, h)
}
