package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/ladderwatch"
	"github.com/fwojciec/ladderwatch/crawl"
	"github.com/fwojciec/ladderwatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher(t *testing.T) {
	t.Parallel()

	t.Run("implements ladderwatch.Fetcher interface", func(t *testing.T) {
		t.Parallel()
		var _ ladderwatch.Fetcher = crawl.NewDispatcher(&mock.Fetcher{})
	})

	t.Run("dispatches in FIFO order with cooldown spacing", func(t *testing.T) {
		t.Parallel()

		const cooldown = 30 * time.Millisecond

		var mu sync.Mutex
		var urls []string
		var starts []time.Time
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				mu.Lock()
				defer mu.Unlock()
				urls = append(urls, url)
				starts = append(starts, time.Now())
				return []byte("body:" + url), nil
			},
		}
		d := crawl.NewDispatcher(fetcher, crawl.WithCooldown(cooldown))

		// Queue every request before the drain loop starts so the order is known.
		var wg sync.WaitGroup
		bodies := make([]string, 5)
		for i := range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				body, err := d.Fetch(context.Background(), fmt.Sprintf("u%d", i))
				assert.NoError(t, err)
				bodies[i] = string(body)
			}()
			require.Eventually(t, func() bool { return d.Pending() == i+1 }, time.Second, time.Millisecond)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = d.Run(ctx) }()
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"u0", "u1", "u2", "u3", "u4"}, urls)
		for i := 1; i < len(starts); i++ {
			assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), cooldown, "call %d dispatched too early", i)
		}
		for i, body := range bodies {
			assert.Equal(t, fmt.Sprintf("body:u%d", i), body)
		}
		assert.Equal(t, int64(5), d.Total())
	})

	t.Run("a failed call only fails its own request", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				if url == "bad" {
					return nil, errors.New("HTTP 500")
				}
				return []byte("ok"), nil
			},
		}
		d := crawl.NewDispatcher(fetcher, crawl.WithCooldown(time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = d.Run(ctx) }()

		_, err := d.Fetch(ctx, "bad")
		require.Error(t, err)

		body, err := d.Fetch(ctx, "good")
		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, int64(2), d.Total(), "failed calls still count against the budget")
	})

	t.Run("blackout delays calls without dropping them", func(t *testing.T) {
		t.Parallel()

		var blackout atomic.Bool
		blackout.Store(true)
		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				calls.Add(1)
				return []byte("ok"), nil
			},
		}
		d := crawl.NewDispatcher(fetcher,
			crawl.WithCooldown(time.Millisecond),
			crawl.WithBlackout(func(time.Time) bool { return blackout.Load() }, 5*time.Millisecond),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = d.Run(ctx) }()

		done := make(chan error, 1)
		go func() {
			_, err := d.Fetch(ctx, "held")
			done <- err
		}()

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(0), calls.Load(), "no call during blackout")

		blackout.Store(false)
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("held request was never dispatched")
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("skips requests whose caller already gave up", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				calls.Add(1)
				return []byte(url), nil
			},
		}
		d := crawl.NewDispatcher(fetcher, crawl.WithCooldown(time.Millisecond))

		canceled, cancelCaller := context.WithCancel(context.Background())
		cancelCaller()
		_, err := d.Fetch(canceled, "abandoned")
		require.ErrorIs(t, err, context.Canceled)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = d.Run(ctx) }()

		body, err := d.Fetch(ctx, "live")
		require.NoError(t, err)
		assert.Equal(t, "live", string(body))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("run returns when context is canceled", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDispatcher(&mock.Fetcher{})
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- d.Run(ctx) }()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Run did not return")
		}
	})
}
