package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsfetch"
)

// Ensure LoggingSink implements newsfetch.Sink.
var _ newsfetch.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink with logging.
type LoggingSink struct {
	next   newsfetch.Sink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next newsfetch.Sink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// Format delegates to the wrapped sink.
func (s *LoggingSink) Format() string {
	return s.next.Format()
}

// Write logs the write and delegates to the wrapped sink.
func (s *LoggingSink) Write(ctx context.Context, batch *newsfetch.Batch) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("write",
			"format", s.next.Format(),
			"records", len(batch.Records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Write(ctx, batch)
}
