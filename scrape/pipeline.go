package scrape

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newsfetch"
)

// Pipeline turns one URL into one Record by fetching and extracting it.
type Pipeline struct {
	Fetcher   newsfetch.PageFetcher
	Extractor newsfetch.Extractor

	// Now returns the scrape time. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Process fetches url and returns its record. It never fails: fetch and
// extraction problems become a record with method "failed" or a non-ok
// failure reason.
func (p *Pipeline) Process(ctx context.Context, req newsfetch.FetchRequest) *newsfetch.Record {
	fetched := p.Fetcher.Fetch(ctx, req)

	rec := &newsfetch.Record{
		URL:            req.URL,
		ScrapeTime:     newsfetch.FormatTime(p.now().UTC()),
		Method:         fetched.Method(),
		ScreenshotPath: fetched.ScreenshotPath,
	}

	if fetched.HTML == "" {
		rec.FailedReason = newsfetch.ReasonNoResponse
		p.logger().Warn("scrape failed",
			"url", req.URL,
			"reason", rec.FailedReason,
			"screenshot", rec.ScreenshotPath,
		)
		return rec
	}

	ext, err := p.Extractor.Extract(fetched.HTML)
	if err != nil {
		p.logger().Warn("extraction failed", "url", req.URL, "err", err)
		ext = &newsfetch.Extraction{FailedReason: newsfetch.ClassifyFailure(fetched.HTML, "", "")}
	}

	body := ext.Body
	rec.Content = &body
	rec.ContentHash = ComputeHash(body)
	rec.Title = nonEmpty(ext.Title)
	rec.Author = nonEmpty(ext.Author)
	if !ext.PublishTime.IsZero() {
		published := newsfetch.FormatTime(ext.PublishTime)
		rec.PublishTime = &published
	}
	rec.FailedReason = ext.FailedReason

	if rec.FailedReason != newsfetch.ReasonOK {
		p.logger().Warn("scrape degraded",
			"url", req.URL,
			"method", rec.Method,
			"reason", rec.FailedReason,
		)
	}
	return rec
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
