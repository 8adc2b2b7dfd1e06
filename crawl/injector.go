package crawl

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// Injector moves user-submitted priority requests to the head of the work queue.
// Priority requests bypass the discovery re-check interval.
type Injector struct {
	Client    ladderwatch.GameClient
	Profanity ladderwatch.ProfanityChecker
	Requests  ladderwatch.RequestStore
	Queue     ladderwatch.WorkQueue
	State     *State
	Cooldown  time.Duration
	Logger    *slog.Logger
	Now       func() time.Time

	running atomic.Bool
}

// Run drains the priority request list once.
// If a previous run is still going, Run logs and returns immediately.
// The processed requests are cleared only when every one of them was handled;
// on error the list is left untouched so the next run retries it. Requests
// submitted while the run was in progress stay for the next run.
func (in *Injector) Run(ctx context.Context) error {
	if !in.running.CompareAndSwap(false, true) {
		in.logger().Info("priority injection already running, skipping")
		return nil
	}
	defer in.running.Store(false)

	reqs, err := in.Requests.FindRequests(ctx)
	if err != nil {
		in.logger().Warn("priority requests unreadable", "err", err)
		return nil
	}
	if len(reqs) == 0 {
		return nil
	}

	begin := time.Now()
	enqueued := 0
	for i, req := range reqs {
		if !ladderwatch.ValidName(req.AccountName) {
			continue
		}
		account := req.AccountName

		names, err := in.Client.AccountCharacters(ctx, account)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			in.logger().Warn("account characters unavailable", "account", account, "err", err)
			names = nil
		}
		in.State.Seen.Stamp(account, in.now())

		for _, name := range candidates(names, in.Profanity, in.State.Skip) {
			in.Queue.PushFront(ladderwatch.QueueItem{CharacterName: name, SourceAccount: account})
			enqueued++
		}

		if i < len(reqs)-1 {
			if err := sleep(ctx, in.Cooldown); err != nil {
				return err
			}
		}
	}

	if err := in.Requests.ClearRequests(ctx, len(reqs)); err != nil {
		return err
	}

	in.logger().Info("priority requests injected",
		"requests", len(reqs),
		"enqueued", enqueued,
		"duration", time.Since(begin),
	)
	return nil
}

func (in *Injector) now() time.Time {
	if in.Now != nil {
		return in.Now()
	}
	return time.Now()
}

func (in *Injector) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.Default()
}
