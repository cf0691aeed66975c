package scrape

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newsfetch"
)

// Ensure TieredFetcher implements newsfetch.PageFetcher at compile time.
var _ newsfetch.PageFetcher = (*TieredFetcher)(nil)

// TieredFetcher tries a plain HTTP fetch first and falls back to a headless
// browser on any error. A random politeness delay precedes each URL.
type TieredFetcher struct {
	HTTP    newsfetch.Fetcher
	Browser newsfetch.Renderer

	MinDelay time.Duration
	MaxDelay time.Duration

	// Sleep and Jitter default to Sleep and Jitter; tests replace them.
	Sleep  SleepFunc
	Jitter func(lo, hi time.Duration) time.Duration

	Logger *slog.Logger
}

// NewTieredFetcher creates a TieredFetcher with the default delay bounds.
func NewTieredFetcher(direct newsfetch.Fetcher, browser newsfetch.Renderer, logger *slog.Logger) *TieredFetcher {
	return &TieredFetcher{
		HTTP:     direct,
		Browser:  browser,
		MinDelay: DefaultMinDelay,
		MaxDelay: DefaultMaxDelay,
		Logger:   logger,
	}
}

// Fetch returns the HTML of req.URL and the tier that produced it. It never
// fails: when both tiers fail the result has no HTML and may carry the
// browser's failure screenshot.
func (f *TieredFetcher) Fetch(ctx context.Context, req newsfetch.FetchRequest) *newsfetch.FetchResult {
	logger := f.logger().With("url", req.URL)

	jitter := f.Jitter
	if jitter == nil {
		jitter = Jitter
	}
	sleep := f.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	// A cancelled delay makes both tiers fail fast, which still yields a result.
	_ = sleep(ctx, jitter(f.MinDelay, f.MaxDelay))

	html, err := f.HTTP.Fetch(ctx, req.URL)
	if err == nil {
		return &newsfetch.FetchResult{HTML: html, Tier: newsfetch.TierHTTP}
	}
	logger.Debug("http tier failed, falling back to browser", "err", err)

	res, err := f.Browser.Render(ctx, req)
	if res == nil {
		res = &newsfetch.RenderResult{}
	}
	if res.CleanupErr != nil {
		logger.Warn("browser cleanup failed", "err", res.CleanupErr)
	}
	if err != nil {
		if res.ScreenshotPath != "" {
			logger.Warn("screenshot saved", "path", res.ScreenshotPath)
		}
		logger.Warn("browser tier failed", "err", err)
		return &newsfetch.FetchResult{Tier: newsfetch.TierNone, ScreenshotPath: res.ScreenshotPath}
	}
	return &newsfetch.FetchResult{HTML: res.HTML, Tier: newsfetch.TierBrowser}
}

func (f *TieredFetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f.Logger
}
