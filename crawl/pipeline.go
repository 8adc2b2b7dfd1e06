// Package crawl provides ingestion pipeline orchestration.
// It coordinates discovery, priority injection, rate-limited fetching and
// ingestion of ladder characters.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ladderwatch"
	"golang.org/x/sync/errgroup"
)

// Schedule defaults.
const (
	DefaultDiscoveryInterval = 30 * time.Minute
	DefaultPriorityInterval  = time.Minute
)

// Pipeline wires the producers, the consumer and the dispatcher together and
// owns the shared queue and crawl state.
type Pipeline struct {
	Dispatcher *Dispatcher
	Discoverer *Discoverer
	Injector   *Injector
	Consumer   *Consumer
	Monitor    *Monitor
	Queue      *Queue
	State      *State

	DiscoveryInterval time.Duration
	PriorityInterval  time.Duration
	Logger            *slog.Logger
}

// Run starts every task and blocks until ctx is done or a task fails fatally.
// Discovery runs once immediately and then on its interval; priority
// injection runs on its own shorter interval. Returns nil on cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	discoveryInterval := p.DiscoveryInterval
	if discoveryInterval <= 0 {
		discoveryInterval = DefaultDiscoveryInterval
	}
	priorityInterval := p.PriorityInterval
	if priorityInterval <= 0 {
		priorityInterval = DefaultPriorityInterval
	}

	p.Logger.Info("pipeline starting",
		"discovery_interval", discoveryInterval,
		"priority_interval", priorityInterval,
		"queued", p.Queue.Len(),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.Dispatcher.Run(gctx)
	})
	g.Go(func() error {
		return p.Consumer.Run(gctx)
	})
	if p.Monitor != nil {
		g.Go(func() error {
			return p.Monitor.Run(gctx)
		})
	}
	g.Go(func() error {
		return every(gctx, discoveryInterval, true, "discovery", p.Discoverer.Run, p.Logger)
	})
	g.Go(func() error {
		return every(gctx, priorityInterval, false, "priority injection", p.Injector.Run, p.Logger)
	})

	err := g.Wait()
	p.Logger.Info("pipeline stopped", "queued", p.Queue.Len(), "err", err)
	return err
}

// Snapshot captures the crawl state for persistence.
func (p *Pipeline) Snapshot() *ladderwatch.Snapshot {
	return p.State.Snapshot()
}
