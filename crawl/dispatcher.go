package crawl

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// Dispatcher defaults.
const (
	// DefaultCooldown is the pause after every upstream call.
	DefaultCooldown = 1000 * time.Millisecond
	// DefaultBlackoutRecheck is how often a held-back queue re-checks the blackout window.
	DefaultBlackoutRecheck = time.Minute
	// DefaultDispatchQueueSize bounds pending requests before callers block.
	DefaultDispatchQueueSize = 1024
)

// Compile-time interface verification.
var _ ladderwatch.Fetcher = (*Dispatcher)(nil)

// Dispatcher serializes every upstream call through one FIFO queue drained by
// a single goroutine. No two calls are ever in flight at once and each call is
// followed by a fixed cooldown. During a blackout window calls are delayed,
// never dropped.
type Dispatcher struct {
	fetcher  ladderwatch.Fetcher
	cooldown time.Duration
	blackout BlackoutFunc
	recheck  time.Duration
	now      func() time.Time

	requests chan *dispatchRequest
	total    atomic.Int64
	busy     atomic.Bool
}

type dispatchRequest struct {
	ctx   context.Context
	url   string
	reply chan dispatchResult
}

type dispatchResult struct {
	body []byte
	err  error
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithCooldown sets the pause after each call.
// Defaults to DefaultCooldown.
func WithCooldown(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.cooldown = d
	}
}

// WithBlackout sets the quiet-window policy.
// Defaults to NoBlackout.
func WithBlackout(fn BlackoutFunc, recheck time.Duration) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.blackout = fn
		dp.recheck = recheck
	}
}

// WithQueueSize sets how many requests may wait before callers block.
func WithQueueSize(n int) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.requests = make(chan *dispatchRequest, n)
	}
}

// WithClock overrides the wall clock used for blackout checks.
func WithClock(now func() time.Time) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.now = now
	}
}

// NewDispatcher creates a Dispatcher that issues calls through fetcher.
// Run must be started for queued calls to make progress.
func NewDispatcher(fetcher ladderwatch.Fetcher, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		fetcher:  fetcher,
		cooldown: DefaultCooldown,
		blackout: NoBlackout,
		recheck:  DefaultBlackoutRecheck,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.requests == nil {
		d.requests = make(chan *dispatchRequest, DefaultDispatchQueueSize)
	}
	if d.blackout == nil {
		d.blackout = NoBlackout
	}
	if d.recheck <= 0 {
		d.recheck = DefaultBlackoutRecheck
	}
	return d
}

// Fetch queues a call and blocks until the drain loop has issued it.
// A failed call only fails this request.
func (d *Dispatcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req := &dispatchRequest{
		ctx:   ctx,
		url:   url,
		reply: make(chan dispatchResult, 1),
	}

	select {
	case d.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.body, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run drains the queue until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		var req *dispatchRequest
		select {
		case <-ctx.Done():
			return nil
		case req = <-d.requests:
		}

		for d.blackout(d.now()) {
			if err := sleep(ctx, d.recheck); err != nil {
				req.reply <- dispatchResult{err: err}
				return nil
			}
		}

		// The caller gave up while queued; don't spend budget on it.
		if err := req.ctx.Err(); err != nil {
			req.reply <- dispatchResult{err: err}
			continue
		}

		d.busy.Store(true)
		body, err := d.fetcher.Fetch(req.ctx, req.url)
		d.busy.Store(false)
		d.total.Add(1)
		req.reply <- dispatchResult{body: body, err: err}

		if err := sleep(ctx, d.cooldown); err != nil {
			return nil
		}
	}
}

// Total returns the number of calls issued since start.
func (d *Dispatcher) Total() int64 {
	return d.total.Load()
}

// Pending returns the number of calls waiting to be issued.
func (d *Dispatcher) Pending() int {
	return len(d.requests)
}

// Busy reports whether a call is in flight.
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}
