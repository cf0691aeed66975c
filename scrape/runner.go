// Package scrape orchestrates batch scraping: a politeness-delayed two-tier
// fetch, article extraction and fan-out across a bounded worker pool, ending
// with every output sink.
package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fwojciec/newsfetch"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of URLs processed in parallel.
const DefaultConcurrency = 5

// Runner scrapes a list of URLs into a batch and writes it to every sink.
type Runner struct {
	Pipeline    *Pipeline
	Sinks       []newsfetch.Sink
	Concurrency int
	Logger      *slog.Logger
}

// Report holds the outcome of a run.
type Report struct {
	Batch *newsfetch.Batch

	// WriteErrors maps a sink format to its write error. Formats that
	// succeeded are absent.
	WriteErrors map[string]error
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Record    *newsfetch.Record
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// urlResult holds the record produced for the URL at position.
type urlResult struct {
	position int
	record   *newsfetch.Record
}

// Run scrapes urls and writes the batch to every sink. It returns an
// EINVALID error for an empty list or blank entries; per-URL failures never
// fail the run and show up as records instead. The batch holds exactly one
// record per URL in input order. A failing sink is recorded in
// Report.WriteErrors and does not stop the others.
func (r *Runner) Run(ctx context.Context, urls []string, cfg newsfetch.RunConfig, progress ProgressFunc) (*Report, error) {
	urls, err := newsfetch.ValidateURLs(urls)
	if err != nil {
		return nil, err
	}
	if cfg.Extra != nil && len(cfg.Extra) != len(urls) {
		return nil, newsfetch.Errorf(newsfetch.EINVALID, "got %d extra rows for %d URLs", len(cfg.Extra), len(urls))
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}

	for _, dir := range []string{cfg.Layout.OutputDir(), cfg.Layout.ScreenshotDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	logger := r.logger().With("run", cfg.RunID)
	batch := &newsfetch.Batch{
		RunID:     cfg.RunID,
		Prefix:    cfg.Layout.Prefix,
		StartedAt: r.Pipeline.now().UTC(),
	}
	logger.Info("run started", "urls", len(urls), "prefix", cfg.Layout.Prefix)

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan urlResult, len(urls))
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, url := range urls {
			g.Go(func() error {
				rec := r.Pipeline.Process(gctx, newsfetch.FetchRequest{
					URL:            url,
					ScreenshotPath: cfg.Layout.ScreenshotPath(url),
				})
				if cfg.Extra != nil {
					rec.Extra = extraColumns(cfg.Extra[i])
				}
				resultCh <- urlResult{position: i, record: rec}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in input order
	records := make([]*newsfetch.Record, total)
	completed := 0
	for result := range resultCh {
		completed++
		records[result.position] = result.record

		if progress == nil {
			continue
		}
		typ := ProgressCompleted
		if result.record.Method == newsfetch.MethodFailed {
			typ = ProgressFailed
		}
		progress(ProgressEvent{
			Type:      typ,
			Completed: completed,
			Total:     total,
			URL:       result.record.URL,
			Record:    result.record,
		})
	}

	batch.Records = records
	batch.FinishedAt = r.Pipeline.now().UTC()

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	report := &Report{Batch: batch, WriteErrors: make(map[string]error)}
	for _, sink := range r.Sinks {
		if err := sink.Write(ctx, batch); err != nil {
			report.WriteErrors[sink.Format()] = err
			logger.Error("write failed", "format", sink.Format(), "err", err)
		}
	}

	summary := newsfetch.Summarize(records)
	logger.Info("run finished",
		"total", summary.Total,
		"ok", summary.OK,
		"failed", summary.Failed,
		"duration", batch.FinishedAt.Sub(batch.StartedAt).Round(time.Millisecond),
	)
	return report, nil
}

// extraColumns copies row, renaming keys that collide with record fields.
func extraColumns(row map[string]any) map[string]any {
	if len(row) == 0 {
		return nil
	}
	out := make(map[string]any, len(row))
	for k, v := range row {
		if reservedFields[k] {
			k = "input_" + k
		}
		out[k] = v
	}
	return out
}

var reservedFields = map[string]bool{
	newsfetch.FieldURL:            true,
	newsfetch.FieldContent:        true,
	newsfetch.FieldPublishTime:    true,
	newsfetch.FieldTitle:          true,
	newsfetch.FieldAuthor:         true,
	newsfetch.FieldScrapeTime:     true,
	newsfetch.FieldMethod:         true,
	newsfetch.FieldFailedReason:   true,
	newsfetch.FieldScreenshotPath: true,
	newsfetch.FieldHasScreenshot:  true,
	newsfetch.FieldContentHash:    true,
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
