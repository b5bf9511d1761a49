package notification_test

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/intercomm/core/kind"
	"github.com/dmitrymomot/intercomm/core/notification"
)

type ready struct {
	Worker string
	Seq    int
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("only one concurrent subscriber wins", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[ready]("Ready")

		var wins, rejected atomic.Int32
		subs := make(chan *notification.Subscription[ready], 1)

		var g errgroup.Group
		for range 32 {
			g.Go(func() error {
				sub, err := notification.Subscribe(ctx, k)
				if err == nil {
					wins.Add(1)
					subs <- sub
					return nil
				}
				if !errors.Is(err, notification.ErrAlreadySubscribed) || !errors.Is(err, kind.ErrAlreadyAttached) {
					return err
				}
				rejected.Add(1)
				return nil
			})
		}
		require.NoError(t, g.Wait())

		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, int32(31), rejected.Load())

		sub := <-subs
		require.NoError(t, sub.Close())
	})

	t.Run("close allows a new owner", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[ready]("Ready")

		first, err := k.Subscribe(ctx)
		require.NoError(t, err)

		_, err = k.Subscribe(ctx)
		require.ErrorIs(t, err, notification.ErrAlreadySubscribed)

		require.NoError(t, first.Close())

		second, err := k.Subscribe(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID(), second.ID())
		require.NoError(t, second.Close())
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := notification.Subscribe(ctx, notification.Declare[ready]("Ready"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNotify(t *testing.T) {
	t.Parallel()

	t.Run("not subscribed", func(t *testing.T) {
		t.Parallel()

		k := notification.Declare[ready]("Orphan")
		err := notification.Notify(context.Background(), k, ready{})
		require.ErrorIs(t, err, notification.ErrNotSubscribed)
		require.ErrorIs(t, err, kind.ErrNotAttached)

		var kerr *kind.Error
		require.ErrorAs(t, err, &kerr)
		assert.Equal(t, "notify", kerr.Op)
		assert.Equal(t, "Orphan", kerr.Kind)
		assert.Equal(t, kind.Notification, kerr.Pattern)
		assert.Equal(t, "notification Orphan notify: not subscribed", err.Error())
	})

	t.Run("not subscribed after close", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[ready]("Ready")

		sub, err := k.Subscribe(ctx)
		require.NoError(t, err)
		require.NoError(t, k.Notify(ctx, ready{Seq: 1}))
		require.NoError(t, sub.Close())

		assert.ErrorIs(t, k.Notify(ctx, ready{Seq: 2}), notification.ErrNotSubscribed)
	})

	t.Run("single producer order is preserved", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[int]("Seq", kind.WithBufferSize(4))

		sub, err := k.Subscribe(ctx)
		require.NoError(t, err)
		defer sub.Close()

		const n = 200
		var g errgroup.Group
		g.Go(func() error {
			for i := range n {
				if err := k.Notify(ctx, i); err != nil {
					return err
				}
			}
			return nil
		})

		for i := range n {
			v, err := sub.Recv(ctx)
			require.NoError(t, err)
			require.Equal(t, i, v)
		}
		require.NoError(t, g.Wait())
	})

	t.Run("multiple producers deliver everything", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[ready]("Ready")

		sub, err := k.Subscribe(ctx)
		require.NoError(t, err)
		defer sub.Close()

		const producers, perProducer = 4, 50
		var g errgroup.Group
		for p := range producers {
			g.Go(func() error {
				for i := range perProducer {
					if err := k.Notify(ctx, ready{Worker: string(rune('a' + p)), Seq: i}); err != nil {
						return err
					}
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		last := map[string]int{}
		for range producers * perProducer {
			v, err := sub.Recv(ctx)
			require.NoError(t, err)
			prev, seen := last[v.Worker]
			if seen {
				require.Greater(t, v.Seq, prev, "per-producer order broken for %s", v.Worker)
			}
			last[v.Worker] = v.Seq
		}
		assert.Len(t, last, producers)
	})

	t.Run("bounded mailbox blocks until a slot frees", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[int]("Bounded", kind.WithBufferSize(1))

		sub, err := k.Subscribe(ctx)
		require.NoError(t, err)
		defer sub.Close()

		require.NoError(t, k.Notify(ctx, 1))

		short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, k.Notify(short, 2), context.DeadlineExceeded)

		v, err := sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		require.NoError(t, k.Notify(ctx, 3))
		v, err = sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, v)
	})

	t.Run("try notify never waits", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[int]("TryBounded", kind.WithBufferSize(1))

		require.ErrorIs(t, k.TryNotify(1), notification.ErrNotSubscribed)

		sub, err := k.Subscribe(ctx)
		require.NoError(t, err)

		require.NoError(t, k.TryNotify(1))
		err = notification.TryNotify(k, 2)
		require.ErrorIs(t, err, notification.ErrFull)
		assert.Equal(t, "notification TryBounded notify: subscriber mailbox full", err.Error())

		v, err := sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, v)
		require.NoError(t, k.TryNotify(3))

		require.NoError(t, sub.Close())
		assert.ErrorIs(t, k.TryNotify(4), notification.ErrNotSubscribed)
	})

	t.Run("send fails when the subscriber closes mid-delivery", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[int]("Bounded", kind.WithBufferSize(1))

		sub, err := k.Subscribe(ctx)
		require.NoError(t, err)
		require.NoError(t, k.Notify(ctx, 1))

		errCh := make(chan error, 1)
		go func() {
			errCh <- k.Notify(ctx, 2)
		}()

		// Let the producer find the entry and park on the full mailbox.
		time.Sleep(50 * time.Millisecond)
		require.NoError(t, sub.Close())

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, notification.ErrSendFailed)
			assert.ErrorIs(t, err, kind.ErrSendFailed)
		case <-time.After(time.Second):
			t.Fatal("blocked notify was not released by Close")
		}
	})
}

func TestSubscription(t *testing.T) {
	t.Parallel()

	t.Run("try recv", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[string]("Try")

		sub, err := k.Subscribe(ctx)
		require.NoError(t, err)
		defer sub.Close()

		_, err = sub.TryRecv()
		require.ErrorIs(t, err, notification.ErrEmpty)

		require.NoError(t, k.Notify(ctx, "hello"))
		v, err := sub.TryRecv()
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
	})

	t.Run("canceled recv leaves the subscription usable", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		k := notification.Declare[string]("Cancel")

		sub, err := k.Subscribe(ctx)
		require.NoError(t, err)
		defer sub.Close()

		short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, err = sub.Recv(short)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, k.Notify(ctx, "later"))
		v, err := sub.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, "later", v)
	})

	t.Run("use after close", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		sub, err := notification.Subscribe(ctx, notification.Declare[string]("Closed"))
		require.NoError(t, err)
		require.NoError(t, sub.Close())

		err = sub.Close()
		assert.ErrorIs(t, err, notification.ErrSubscriptionClosed)
		assert.ErrorIs(t, err, kind.ErrClosed)

		_, err = sub.Recv(ctx)
		assert.ErrorIs(t, err, notification.ErrSubscriptionClosed)

		_, err = sub.TryRecv()
		assert.ErrorIs(t, err, notification.ErrSubscriptionClosed)
	})

	t.Run("close releases a blocked recv", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		sub, err := notification.Subscribe(ctx, notification.Declare[string]("Blocked"))
		require.NoError(t, err)

		errCh := make(chan error, 1)
		go func() {
			_, err := sub.Recv(ctx)
			errCh <- err
		}()

		time.Sleep(20 * time.Millisecond)
		require.NoError(t, sub.Close())

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, notification.ErrSubscriptionClosed)
		case <-time.After(time.Second):
			t.Fatal("recv was not released by Close")
		}
	})
}

func TestAbandonedSubscription(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	k := notification.Declare[int]("Abandoned")

	func() {
		_, err := k.Subscribe(ctx)
		require.NoError(t, err)
	}()

	var next *notification.Subscription[int]
	require.Eventually(t, func() bool {
		runtime.GC()
		sub, err := k.Subscribe(ctx)
		if err != nil {
			return false
		}
		next = sub
		return true
	}, 5*time.Second, 10*time.Millisecond, "abandoned subscription was never evicted")

	require.NoError(t, k.Notify(ctx, 7))
	v, err := next.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	require.NoError(t, next.Close())

	assert.GreaterOrEqual(t, notification.Stats().Evicted, int64(1))
}
