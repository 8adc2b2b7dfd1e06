package crawl

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// every invokes fn every interval until ctx is done, and once at start when
// immediate is set. Each invocation runs in its own goroutine so a slow run
// never delays the schedule; fn is expected to guard itself against overlap.
// every returns after all in-flight invocations have finished.
func every(ctx context.Context, interval time.Duration, immediate bool, name string, fn func(context.Context) error, logger *slog.Logger) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	invoke := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				logger.Error(name+" failed", "err", err)
			}
		}()
	}

	if immediate {
		invoke()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			invoke()
		}
	}
}
