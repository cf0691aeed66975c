package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsfetch"
)

// Ensure LoggingRenderer implements newsfetch.Renderer.
var _ newsfetch.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   newsfetch.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next newsfetch.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the browser fetch, including the cookie lookup outcome, and
// delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, req newsfetch.FetchRequest) (res *newsfetch.RenderResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.URL,
			"duration", time.Since(begin),
			"err", err,
		}
		if res != nil {
			attrs = append(attrs,
				"bytes", len(res.HTML),
				"cookies", res.Cookies.Status.String(),
			)
			if res.ScreenshotPath != "" {
				attrs = append(attrs, "screenshot", res.ScreenshotPath)
			}
		}
		r.logger.Info("render", attrs...)
	}(time.Now())
	return r.next.Render(ctx, req)
}
