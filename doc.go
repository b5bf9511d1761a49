// Package intercomm is an in-process, typed message bus. Goroutines exchange data
// through three patterns without holding references to each other: fan-out
// broadcast, single-consumer notification, and request-response.
//
// # Package Organization
//
// The module is organized into three groups:
//
//   - Patterns: the public API for declaring kinds and exchanging messages
//   - Core: identity, registry, configuration and logging shared by the patterns
//   - Primitives: standalone concurrency building blocks the patterns are built on
//
// # Pattern Packages
//
//	github.com/dmitrymomot/intercomm/core/broadcast     - Fan-out to every subscriber, producers never wait
//	github.com/dmitrymomot/intercomm/core/notification  - Single subscriber mailbox, bounded or unbounded
//	github.com/dmitrymomot/intercomm/core/request       - Single listener answering typed requests
//
// # Core Packages
//
//	github.com/dmitrymomot/intercomm/core/kind          - Kind identity, descriptors and the error taxonomy
//	github.com/dmitrymomot/intercomm/core/registry      - Concurrent kind-indexed registry with deferred removal
//	github.com/dmitrymomot/intercomm/core/config        - Type-safe environment variable loading
//	github.com/dmitrymomot/intercomm/core/logger        - Structured logging built on slog
//
// # Primitive Packages
//
//	github.com/dmitrymomot/intercomm/pkg/async          - One-shot promises and wake-all signals
//	github.com/dmitrymomot/intercomm/pkg/mailbox        - Context-aware FIFO queue, bounded or unbounded
//	github.com/dmitrymomot/intercomm/pkg/fanout         - Ring-buffer broadcast channel with lag reporting
//
// # Quick Start
//
//	type Pair struct{ A, B int }
//
//	var (
//		Sum   = request.Declare[Pair, int]("Sum")
//		Ready = notification.Declare[string]("Ready")
//		Close = broadcast.Declare[struct{}]("Close", 1)
//	)
//
//	l, _ := Sum.Listen(ctx)
//	defer l.Close()
//	go l.Serve(ctx, func(_ context.Context, p Pair) int { return p.A + p.B })
//
//	v, err := Sum.Request(ctx, Pair{A: 5, B: 10}) // 15
//
// # Process-wide Setup
//
// The pattern packages keep one lazily created registry each and log through
// logger.Default, which discards everything until configured. Configure installs
// a logger built from Config, and the Janitor applies deferred removals left by
// handles that were garbage collected without Close:
//
//	cfg, err := intercomm.LoadConfig()
//	if err != nil {
//		return err
//	}
//	intercomm.Configure(cfg)
//
//	janitor := intercomm.NewJanitor(intercomm.WithSweepInterval(cfg.SweepInterval))
//	g.Go(janitor.Run(ctx))
//
// Stats reports the state of all three registries at once.
package intercomm
