package broadcast_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/intercomm/core/broadcast"
	"github.com/dmitrymomot/intercomm/core/kind"
)

func TestDeclare(t *testing.T) {
	t.Parallel()

	k := broadcast.Declare[string]("Tick", 8)
	assert.Equal(t, "Tick", k.Name())
	assert.Equal(t, 8, k.BufferSize())
	assert.Equal(t, kind.Broadcast, k.Pattern())

	assert.PanicsWithValue(t, "broadcast: buffer size must be at least 1", func() {
		broadcast.Declare[string]("Broken", 0)
	})
}

func TestNotify(t *testing.T) {
	t.Parallel()

	t.Run("every subscriber observes the payload", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		closeKind := broadcast.Declare[struct{}]("Close", 1)

		first := closeKind.Subscribe(ctx)
		defer first.Close()
		second := closeKind.Subscribe(ctx)
		defer second.Close()

		assert.Equal(t, 2, closeKind.Notify(ctx, struct{}{}))

		for _, sub := range []*broadcast.Subscription[struct{}]{first, second} {
			v, err := sub.Recv(ctx)
			require.NoError(t, err)
			assert.Equal(t, struct{}{}, v)
		}
	})

	t.Run("without subscribers it is a no-op", func(t *testing.T) {
		t.Parallel()

		k := broadcast.Declare[int]("Nobody", 4)
		assert.Equal(t, 0, broadcast.Notify(context.Background(), k, 1))
	})

	t.Run("subscribers only see payloads sent after subscribing", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("Late", 4)

		early := k.Subscribe(ctx)
		defer early.Close()
		k.Notify(ctx, 1)

		late := k.Subscribe(ctx)
		defer late.Close()
		k.Notify(ctx, 2)

		v, err := early.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		v, err = late.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})

	t.Run("concurrent producers reach all subscribers", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("Fanout", 256)

		subs := make([]*broadcast.Subscription[int], 3)
		for i := range subs {
			subs[i] = k.Subscribe(ctx)
			defer subs[i].Close()
		}

		const producers, perProducer = 4, 25
		var g errgroup.Group
		for range producers {
			g.Go(func() error {
				for i := range perProducer {
					k.Notify(ctx, i)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		for _, sub := range subs {
			for range producers * perProducer {
				_, err := sub.Recv(ctx)
				require.NoError(t, err)
			}
			assert.Zero(t, sub.Missed())
		}
	})
}

func TestSubscription(t *testing.T) {
	t.Parallel()

	t.Run("lag is absorbed", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("Lag", 2)

		sub := k.Subscribe(ctx)
		defer sub.Close()

		for i := range 5 {
			require.Equal(t, 1, k.Notify(ctx, i))
		}

		v, err := sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, v)
		assert.Equal(t, uint64(3), sub.Missed())

		v, err = sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, v)
	})

	t.Run("try recv absorbs lag", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("TryLag", 2)

		sub := k.Subscribe(ctx)
		defer sub.Close()

		_, err := sub.TryRecv()
		require.ErrorIs(t, err, broadcast.ErrEmpty)

		for i := range 4 {
			k.Notify(ctx, i)
		}

		v, err := sub.TryRecv()
		require.NoError(t, err)
		assert.Equal(t, 2, v)
		assert.Equal(t, uint64(2), sub.Missed())

		v, err = sub.TryRecv()
		require.NoError(t, err)
		assert.Equal(t, 3, v)

		_, err = sub.TryRecv()
		require.ErrorIs(t, err, broadcast.ErrEmpty)

		require.NoError(t, sub.Close())
		_, err = sub.TryRecv()
		assert.ErrorIs(t, err, broadcast.ErrSubscriptionClosed)
	})

	t.Run("canceled recv", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("Idle", 1)
		sub := k.Subscribe(ctx)
		defer sub.Close()

		short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, err := sub.Recv(short)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		k.Notify(ctx, 9)
		v, err := sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 9, v)
	})

	t.Run("closing one subscriber keeps the others", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("Partial", 1)

		a := k.Subscribe(ctx)
		b := k.Subscribe(ctx)
		require.NoError(t, a.Close())

		assert.Equal(t, 1, k.Notify(ctx, 5))
		v, err := b.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, v)

		require.NoError(t, b.Close())
		assert.Equal(t, 0, k.Notify(ctx, 6))
	})

	t.Run("last close removes the entry and resubscribe recreates it", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("Recreate", 1)

		require.NoError(t, k.Subscribe(ctx).Close())
		assert.Equal(t, 0, k.Notify(ctx, 1))

		sub := k.Subscribe(ctx)
		defer sub.Close()
		assert.Equal(t, 1, k.Notify(ctx, 2))
		v, err := sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})

	t.Run("use after close", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		sub := broadcast.Subscribe(ctx, broadcast.Declare[int]("Closed", 1))
		require.NoError(t, sub.Close())

		err := sub.Close()
		assert.ErrorIs(t, err, broadcast.ErrSubscriptionClosed)
		assert.ErrorIs(t, err, kind.ErrClosed)

		_, err = sub.Recv(ctx)
		assert.ErrorIs(t, err, broadcast.ErrSubscriptionClosed)
	})

	t.Run("close releases a blocked recv", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		sub := broadcast.Subscribe(ctx, broadcast.Declare[int]("Blocked", 1))

		errCh := make(chan error, 1)
		go func() {
			_, err := sub.Recv(ctx)
			errCh <- err
		}()

		time.Sleep(20 * time.Millisecond)
		require.NoError(t, sub.Close())

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, broadcast.ErrSubscriptionClosed)
		case <-time.After(time.Second):
			t.Fatal("recv was not released by Close")
		}
	})

	t.Run("subscribe and close churn", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("Churn", 4)

		var g errgroup.Group
		for range 16 {
			g.Go(func() error {
				for range 50 {
					sub := k.Subscribe(ctx)
					k.Notify(ctx, 1)
					if err := sub.Close(); err != nil {
						return err
					}
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, 0, k.Notify(ctx, 1))
	})
}

func TestAbandonedSubscription(t *testing.T) {
	t.Parallel()

	t.Run("last subscriber", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("Abandoned", 1)

		func() {
			k.Subscribe(ctx)
		}()

		require.Eventually(t, func() bool {
			runtime.GC()
			return k.Notify(ctx, 1) == 0
		}, 5*time.Second, 10*time.Millisecond, "abandoned subscription never detached")

		broadcast.Sweep()
		assert.GreaterOrEqual(t, broadcast.Stats().Evicted, int64(1))
	})

	t.Run("sibling keeps receiving", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := broadcast.Declare[int]("HalfAbandoned", 1)

		kept := k.Subscribe(ctx)
		defer kept.Close()

		func() {
			k.Subscribe(ctx)
		}()

		require.Eventually(t, func() bool {
			runtime.GC()
			return k.Notify(ctx, 1) == 1
		}, 5*time.Second, 10*time.Millisecond, "abandoned subscription never detached")

		// The entry must survive draining because kept is still attached.
		broadcast.Sweep()
		assert.Equal(t, 1, k.Notify(ctx, 2))

		var last int
		for last != 2 {
			v, err := kept.Recv(ctx)
			require.NoError(t, err)
			last = v
		}
	})
}
