package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// Ensure LoggingSink implements ladderwatch.CharacterSink.
var _ ladderwatch.CharacterSink = (*LoggingSink)(nil)

// LoggingSink wraps a CharacterSink and logs every ingested record.
type LoggingSink struct {
	next   ladderwatch.CharacterSink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next ladderwatch.CharacterSink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// Ingest delegates to the wrapped sink and logs the operation.
func (s *LoggingSink) Ingest(ctx context.Context, rec *ladderwatch.CharacterRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("ingest",
			"name", rec.Name,
			"account", rec.SourceAccount,
			"mode", rec.GameMode,
			"season", rec.Season,
			"level", rec.Level,
			"changed", rec.Changed(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Ingest(ctx, rec)
}
