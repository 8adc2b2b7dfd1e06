package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// Ensure LoggingGameClient implements ladderwatch.GameClient.
var _ ladderwatch.GameClient = (*LoggingGameClient)(nil)

// LoggingGameClient wraps a GameClient and traces each upstream operation at
// debug level. Failures are reported by the callers that degrade them.
type LoggingGameClient struct {
	next   ladderwatch.GameClient
	logger *slog.Logger
}

// NewLoggingGameClient creates a new LoggingGameClient.
func NewLoggingGameClient(next ladderwatch.GameClient, logger *slog.Logger) *LoggingGameClient {
	return &LoggingGameClient{next: next, logger: logger}
}

func (c *LoggingGameClient) log(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "err", err)
	}
	c.logger.Debug(msg, args...)
}

// OnlineAccounts delegates to the wrapped client and logs the operation.
func (c *LoggingGameClient) OnlineAccounts(ctx context.Context) (accounts []string, err error) {
	defer func(begin time.Time) {
		c.log("online accounts", err,
			"count", len(accounts),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.OnlineAccounts(ctx)
}

// AccountCharacters delegates to the wrapped client and logs the operation.
func (c *LoggingGameClient) AccountCharacters(ctx context.Context, account string) (names []string, err error) {
	defer func(begin time.Time) {
		c.log("account characters", err,
			"account", account,
			"count", len(names),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.AccountCharacters(ctx, account)
}

// Character delegates to the wrapped client and logs the operation.
func (c *LoggingGameClient) Character(ctx context.Context, name string) (char *ladderwatch.Character, err error) {
	defer func(begin time.Time) {
		c.log("character", err,
			"name", name,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.Character(ctx, name)
}
