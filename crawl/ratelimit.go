package crawl

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ladderwatch"
	"golang.org/x/time/rate"
)

var _ ladderwatch.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is the hard per-host ceiling under the dispatcher cooldown.
// The cooldown spaces calls as they are issued; the limiter still holds the
// budget if the cooldown is configured below it. Each host gets its own token
// bucket with a burst of one.
type HostLimiter struct {
	limit rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter

	throttled atomic.Int64 // nanoseconds callers spent held back
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second per
// host. A non-positive rps disables the ceiling.
func NewHostLimiter(rps float64) *HostLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &HostLimiter{
		limit: limit,
		hosts: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host fits the budget or ctx is done.
// A cancelled wait gives its slot back.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	if h.Unlimited() {
		return ctx.Err()
	}

	r := h.bucket(host).Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-t.C:
		h.throttled.Add(int64(delay))
		return nil
	}
}

// Unlimited reports whether the ceiling is disabled.
func (h *HostLimiter) Unlimited() bool {
	return h.limit == rate.Inf
}

// Throttled returns the total time callers were held back.
func (h *HostLimiter) Throttled() time.Duration {
	return time.Duration(h.throttled.Load())
}

func (h *HostLimiter) bucket(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.hosts[host]
	if !ok {
		l = rate.NewLimiter(h.limit, 1)
		h.hosts[host] = l
	}
	return l
}
