package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/ladderwatch"
	"github.com/fwojciec/ladderwatch/crawl"
	lwhttp "github.com/fwojciec/ladderwatch/http"
	lwprom "github.com/fwojciec/ladderwatch/prometheus"
	lwslog "github.com/fwojciec/ladderwatch/slog"
	"github.com/fwojciec/ladderwatch/stats"
	"github.com/fwojciec/ladderwatch/wordlist"
	"github.com/prometheus/client_golang/prometheus"
)

// Run executes the run command.
// State is saved once the pipeline stops, whether it was interrupted or failed.
func (c *RunCmd) Run(deps *Dependencies) error {
	logger := deps.Logger

	blackout := crawl.NoBlackout
	if c.Blackout != "" {
		window, err := crawl.ParseDailyWindow(c.Blackout, time.UTC)
		if err != nil {
			return ladderwatch.Errorf(ladderwatch.EINVALID, "blackout: %v", err)
		}
		blackout = window.Contains
		logger.Info("blackout window enabled", "window", window.String())
	}

	profanity := wordlist.Default()
	if c.Words != "" {
		checker, err := wordlist.Load(c.Words)
		if err != nil {
			return fmt.Errorf("failed to load word list: %w", err)
		}
		profanity = checker
	}

	limiter := crawl.NewHostLimiter(c.HostRate)
	fetcher := lwslog.NewLoggingFetcher(lwhttp.NewFetcher(
		lwhttp.WithTimeout(c.Timeout),
		lwhttp.WithLimiter(limiter),
	), logger)

	dispatcher := crawl.NewDispatcher(fetcher,
		crawl.WithCooldown(c.Cooldown),
		crawl.WithBlackout(blackout, c.BlackoutRecheck),
	)
	client := lwslog.NewLoggingGameClient(lwhttp.NewClient(c.BaseURL, dispatcher), logger)

	state := crawl.LoadState(deps.Ctx, deps.States, logger)
	queue := crawl.NewQueue()
	started := time.Now()

	pipeline := &crawl.Pipeline{
		Dispatcher: dispatcher,
		Discoverer: &crawl.Discoverer{
			Client:          client,
			Profanity:       profanity,
			Queue:           queue,
			State:           state,
			RecheckInterval: c.Recheck,
			Logger:          logger,
		},
		Injector: &crawl.Injector{
			Client:    client,
			Profanity: profanity,
			Requests:  deps.Requests,
			Queue:     queue,
			State:     state,
			Cooldown:  c.Cooldown,
			Logger:    logger,
		},
		Consumer: &crawl.Consumer{
			Client:       client,
			Sink:         lwslog.NewLoggingSink(deps.Characters, logger),
			Stats:        stats.NewEngine(),
			Queue:        queue,
			State:        state,
			Season:       c.Season,
			MinLevel:     c.MinLevel,
			IdleInterval: c.IdleInterval,
			ErrorBackoff: c.ErrorBackoff,
			Logger:       logger,
		},
		Monitor: &crawl.Monitor{
			Counter:  dispatcher,
			Queue:    queue,
			Interval: c.MonitorInterval,
			Started:  started,
			Logger:   logger,
		},
		Queue:             queue,
		State:             state,
		DiscoveryInterval: c.DiscoveryInterval,
		PriorityInterval:  c.PriorityInterval,
		Logger:            logger,
	}

	ctx, cancel := context.WithCancel(deps.Ctx)
	defer cancel()

	metricsDone := make(chan struct{})
	if c.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := lwprom.Register(reg, lwprom.Sources{
			Requests:   dispatcher,
			Throttle:   limiter,
			Queue:      queue,
			Seen:       state.Seen,
			Skip:       state.Skip,
			SkipFilter: state.Skip,
			Started:    started,
		}); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		go func() {
			defer close(metricsDone)
			if err := lwprom.Serve(ctx, c.MetricsAddr, reg, logger); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
	} else {
		close(metricsDone)
	}

	runErr := pipeline.Run(ctx)
	cancel()
	<-metricsDone

	saveErr := crawl.SaveState(context.WithoutCancel(deps.Ctx), deps.States, state, logger)
	return errors.Join(runErr, saveErr)
}
