package crawl

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// DefaultRecheckInterval is how long an enumerated account is left alone.
const DefaultRecheckInterval = 24 * time.Hour

// Discoverer finds characters worth ingesting among the accounts currently online.
type Discoverer struct {
	Client          ladderwatch.GameClient
	Profanity       ladderwatch.ProfanityChecker
	Queue           ladderwatch.WorkQueue
	State           *State
	RecheckInterval time.Duration
	Logger          *slog.Logger
	Now             func() time.Time

	running atomic.Bool
}

// DiscoverResult summarizes one discovery pass.
type DiscoverResult struct {
	Online   int
	Checked  int
	Enqueued int
}

// Run performs one discovery pass.
// If a previous pass is still running, Run logs and returns immediately.
func (d *Discoverer) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		d.logger().Info("discovery already running, skipping")
		return nil
	}
	defer d.running.Store(false)

	begin := time.Now()
	result, err := d.discover(ctx)
	d.logger().Info("discovery pass",
		"online", result.Online,
		"checked", result.Checked,
		"enqueued", result.Enqueued,
		"duration", time.Since(begin),
	)
	return err
}

func (d *Discoverer) discover(ctx context.Context) (DiscoverResult, error) {
	var result DiscoverResult

	accounts, err := d.Client.OnlineAccounts(ctx)
	if err != nil {
		d.logger().Warn("online accounts unavailable", "err", err)
		return result, nil
	}
	result.Online = len(accounts)

	interval := d.RecheckInterval
	if interval <= 0 {
		interval = DefaultRecheckInterval
	}

	for _, account := range accounts {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if !ladderwatch.ValidName(account) {
			continue
		}
		if !d.State.Seen.Due(account, d.now(), interval) {
			continue
		}

		names, err := d.Client.AccountCharacters(ctx, account)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			d.logger().Warn("account characters unavailable", "account", account, "err", err)
			names = nil
		}
		// Stamp even when empty so a dead account isn't hammered every pass.
		d.State.Seen.Stamp(account, d.now())
		result.Checked++

		for _, name := range candidates(names, d.Profanity, d.State.Skip) {
			d.Queue.PushBack(ladderwatch.QueueItem{CharacterName: name, SourceAccount: account})
			result.Enqueued++
		}
	}

	return result, nil
}

func (d *Discoverer) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Discoverer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
