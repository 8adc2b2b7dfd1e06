package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// Consumer defaults.
const (
	DefaultIdleInterval = 5 * time.Second
	DefaultErrorBackoff = 10 * time.Second
	DefaultMinLevel     = 80
)

// Outcome is what happened to a single queue item.
type Outcome int

const (
	OutcomeIngested Outcome = iota
	OutcomeMissing
	OutcomeNonLadder
	OutcomeUnderLevel
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIngested:
		return "ingested"
	case OutcomeMissing:
		return "missing"
	case OutcomeNonLadder:
		return "non-ladder"
	case OutcomeUnderLevel:
		return "under-level"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Consumer is the single worker draining the work queue into the sink.
type Consumer struct {
	Client       ladderwatch.GameClient
	Sink         ladderwatch.CharacterSink
	Stats        ladderwatch.StatEngine
	Queue        ladderwatch.WorkQueue
	State        *State
	Season       int
	MinLevel     int
	IdleInterval time.Duration
	ErrorBackoff time.Duration
	Logger       *slog.Logger
	Now          func() time.Time
}

// Run drains the queue until ctx is done.
// A failure on one item is logged and followed by a backoff; it never stops
// the loop. A panic escaping the loop itself is returned as an EINTERNAL error
// and is meant to take the process down.
func (c *Consumer) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ladderwatch.Errorf(ladderwatch.EINTERNAL, "consumer loop: %v", r)
		}
	}()

	idle := c.IdleInterval
	if idle <= 0 {
		idle = DefaultIdleInterval
	}
	backoff := c.ErrorBackoff
	if backoff <= 0 {
		backoff = DefaultErrorBackoff
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		item, ok := c.Queue.PopFront()
		if !ok {
			if sleep(ctx, idle) != nil {
				return nil
			}
			continue
		}

		outcome, err := c.Process(ctx, item)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger().Error("processing failed",
				"character", item.CharacterName,
				"account", item.SourceAccount,
				"err", err,
			)
			if sleep(ctx, backoff) != nil {
				return nil
			}
			continue
		}
		c.logger().Debug("processed",
			"character", item.CharacterName,
			"account", item.SourceAccount,
			"outcome", outcome.String(),
		)
	}
}

// Process fetches, classifies and forwards a single queue item.
// Panics are recovered and returned as errors.
func (c *Consumer) Process(ctx context.Context, item ladderwatch.QueueItem) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing %q: %v", item.CharacterName, r)
		}
	}()

	char, err := c.Client.Character(ctx, item.CharacterName)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeMissing, ctx.Err()
		}
		c.logger().Warn("character unavailable", "character", item.CharacterName, "err", err)
		return OutcomeMissing, nil
	}
	if char == nil {
		c.logger().Warn("character unavailable", "character", item.CharacterName)
		return OutcomeMissing, nil
	}
	if err := char.Validate(); err != nil {
		c.logger().Warn("character incomplete", "character", item.CharacterName, "err", err)
		return OutcomeMissing, nil
	}

	if !char.Info.Status.IsLadder {
		c.State.Skip.Add(item.CharacterName)
		return OutcomeNonLadder, nil
	}

	minLevel := c.MinLevel
	if minLevel <= 0 {
		minLevel = DefaultMinLevel
	}
	if char.Info.Level < minLevel {
		return OutcomeUnderLevel, nil
	}

	rec := &ladderwatch.CharacterRecord{
		Name:          char.Info.Name,
		SourceAccount: item.SourceAccount,
		GameMode:      char.GameMode(),
		Season:        c.Season,
		Level:         char.Info.Level,
		Class:         char.Info.Class.Name,
		Detail:        char.Raw,
		IngestedAt:    c.now(),
	}
	if c.Stats != nil {
		rec.SkillTotals = c.Stats.SkillTotals(char)
	}

	if err := c.Sink.Ingest(ctx, rec); err != nil {
		c.logger().Error("ingest failed", "character", rec.Name, "err", err)
	}
	return OutcomeIngested, nil
}

func (c *Consumer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().UTC()
}

func (c *Consumer) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
