package scrape_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/mock"
	"github.com/fwojciec/newsfetch/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// okExtractor returns a long body so every fetched page classifies as ok.
var okExtractor = &mock.Extractor{
	ExtractFn: func(html string) (*newsfetch.Extraction, error) {
		return &newsfetch.Extraction{Body: html, FailedReason: newsfetch.ReasonOK}, nil
	},
}

func newRunner(fetch func(ctx context.Context, req newsfetch.FetchRequest) *newsfetch.FetchResult, sinks ...newsfetch.Sink) *scrape.Runner {
	return &scrape.Runner{
		Pipeline: &scrape.Pipeline{
			Fetcher:   &mock.PageFetcher{FetchFn: fetch},
			Extractor: okExtractor,
			Now:       fixedClock,
		},
		Sinks: sinks,
	}
}

func recordingSink(format string, err error, got **newsfetch.Batch) *mock.Sink {
	return &mock.Sink{
		FormatFn: func() string { return format },
		WriteFn: func(_ context.Context, batch *newsfetch.Batch) error {
			if got != nil {
				*got = batch
			}
			return err
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns one record per URL in input order", func(t *testing.T) {
		t.Parallel()

		urls := []string{"https://a.com/1", "https://a.com/2", "https://a.com/3", "https://a.com/4"}
		r := newRunner(func(_ context.Context, req newsfetch.FetchRequest) *newsfetch.FetchResult {
			// Later URLs finish first.
			switch req.URL {
			case "https://a.com/1":
				time.Sleep(30 * time.Millisecond)
			case "https://a.com/2":
				time.Sleep(20 * time.Millisecond)
			}
			if req.URL == "https://a.com/3" {
				return &newsfetch.FetchResult{}
			}
			return &newsfetch.FetchResult{HTML: "page " + req.URL, Tier: newsfetch.TierHTTP}
		})

		report, err := r.Run(context.Background(), urls, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "news")}, nil)

		require.NoError(t, err)
		require.Len(t, report.Batch.Records, len(urls))
		for i, rec := range report.Batch.Records {
			assert.Equal(t, urls[i], rec.URL)
			require.NoError(t, rec.Validate())
		}
		assert.Equal(t, newsfetch.MethodFailed, report.Batch.Records[2].Method)
		assert.Equal(t, newsfetch.ReasonNoResponse, report.Batch.Records[2].FailedReason)
		assert.Equal(t, newsfetch.MethodDirectHTTP, report.Batch.Records[0].Method)
	})

	t.Run("keeps cardinality when every URL fails", func(t *testing.T) {
		t.Parallel()

		urls := make([]string, 12)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://down.example/%d", i)
		}
		r := newRunner(func(context.Context, newsfetch.FetchRequest) *newsfetch.FetchResult {
			return &newsfetch.FetchResult{}
		})

		report, err := r.Run(context.Background(), urls, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "")}, nil)

		require.NoError(t, err)
		require.Len(t, report.Batch.Records, 12)
		for _, rec := range report.Batch.Records {
			assert.Equal(t, newsfetch.MethodFailed, rec.Method)
			assert.Nil(t, rec.Content)
		}
	})

	t.Run("accepts unparseable URLs as failed records", func(t *testing.T) {
		t.Parallel()

		r := newRunner(func(context.Context, newsfetch.FetchRequest) *newsfetch.FetchResult {
			return &newsfetch.FetchResult{}
		})

		report, err := r.Run(context.Background(), []string{"not a url"}, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "x")}, nil)

		require.NoError(t, err)
		require.Len(t, report.Batch.Records, 1)
		assert.Equal(t, "not a url", report.Batch.Records[0].URL)
		assert.Equal(t, newsfetch.MethodFailed, report.Batch.Records[0].Method)
	})

	t.Run("rejects empty URL list", func(t *testing.T) {
		t.Parallel()

		r := newRunner(nil)

		_, err := r.Run(context.Background(), nil, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "x")}, nil)

		require.Error(t, err)
		assert.Equal(t, newsfetch.EINVALID, newsfetch.ErrorCode(err))
	})

	t.Run("rejects blank URL entries", func(t *testing.T) {
		t.Parallel()

		r := newRunner(nil)

		_, err := r.Run(context.Background(), []string{"https://a.com", "  "}, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "x")}, nil)

		require.Error(t, err)
		assert.Equal(t, newsfetch.EINVALID, newsfetch.ErrorCode(err))
		assert.Contains(t, newsfetch.ErrorMessage(err), "position 1")
	})

	t.Run("rejects misaligned extra rows", func(t *testing.T) {
		t.Parallel()

		r := newRunner(nil)
		cfg := newsfetch.RunConfig{
			Layout: newsfetch.NewLayout(t.TempDir(), "x"),
			Extra:  []map[string]any{{"a": 1}},
		}

		_, err := r.Run(context.Background(), []string{"https://a.com", "https://b.com"}, cfg, nil)

		assert.Equal(t, newsfetch.EINVALID, newsfetch.ErrorCode(err))
	})

	t.Run("creates output directories before fetching", func(t *testing.T) {
		t.Parallel()

		layout := newsfetch.NewLayout(t.TempDir(), "news")
		r := newRunner(func(context.Context, newsfetch.FetchRequest) *newsfetch.FetchResult {
			for _, dir := range []string{layout.OutputDir(), layout.ScreenshotDir()} {
				info, err := os.Stat(dir)
				assert.NoError(t, err)
				if err == nil {
					assert.True(t, info.IsDir())
				}
			}
			return &newsfetch.FetchResult{}
		})

		_, err := r.Run(context.Background(), []string{"https://a.com"}, newsfetch.RunConfig{Layout: layout}, nil)
		require.NoError(t, err)
	})

	t.Run("passes screenshot path derived from layout", func(t *testing.T) {
		t.Parallel()

		layout := newsfetch.NewLayout(t.TempDir(), "news")
		var got string
		r := newRunner(func(_ context.Context, req newsfetch.FetchRequest) *newsfetch.FetchResult {
			got = req.ScreenshotPath
			return &newsfetch.FetchResult{ScreenshotPath: req.ScreenshotPath}
		})

		report, err := r.Run(context.Background(), []string{"https://a.com/x"}, newsfetch.RunConfig{Layout: layout}, nil)

		require.NoError(t, err)
		assert.Equal(t, layout.ScreenshotPath("https://a.com/x"), got)
		assert.Equal(t, got, report.Batch.Records[0].ScreenshotPath)
	})

	t.Run("bounds concurrency to five workers", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int64
		r := newRunner(func(context.Context, newsfetch.FetchRequest) *newsfetch.FetchResult {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			return &newsfetch.FetchResult{}
		})

		urls := make([]string, 20)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://a.com/%d", i)
		}

		_, err := r.Run(context.Background(), urls, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "x")}, nil)

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int64(scrape.DefaultConcurrency))
		assert.Positive(t, peak.Load())
	})

	t.Run("writes every sink even when one fails", func(t *testing.T) {
		t.Parallel()

		var jsonBatch, csvBatch *newsfetch.Batch
		r := newRunner(
			func(_ context.Context, req newsfetch.FetchRequest) *newsfetch.FetchResult {
				return &newsfetch.FetchResult{HTML: "body", Tier: newsfetch.TierHTTP}
			},
			recordingSink("json", nil, &jsonBatch),
			recordingSink("xlsx", errors.New("disk full"), nil),
			recordingSink("csv", nil, &csvBatch),
		)

		report, err := r.Run(context.Background(), []string{"https://a.com"}, newsfetch.RunConfig{RunID: "run-1", Layout: newsfetch.NewLayout(t.TempDir(), "news")}, nil)

		require.NoError(t, err)
		require.NotNil(t, jsonBatch)
		require.NotNil(t, csvBatch)
		assert.Same(t, report.Batch, jsonBatch)
		require.Len(t, report.WriteErrors, 1)
		assert.EqualError(t, report.WriteErrors["xlsx"], "disk full")
		assert.Equal(t, "run-1", report.Batch.RunID)
		assert.Equal(t, "news", report.Batch.Prefix)
	})

	t.Run("generates run ID when none given", func(t *testing.T) {
		t.Parallel()

		r := newRunner(func(context.Context, newsfetch.FetchRequest) *newsfetch.FetchResult {
			return &newsfetch.FetchResult{}
		})

		report, err := r.Run(context.Background(), []string{"https://a.com"}, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "x")}, nil)

		require.NoError(t, err)
		assert.Len(t, report.Batch.RunID, 36)
	})

	t.Run("attaches extra columns and renames collisions", func(t *testing.T) {
		t.Parallel()

		r := newRunner(func(context.Context, newsfetch.FetchRequest) *newsfetch.FetchResult {
			return &newsfetch.FetchResult{HTML: "body", Tier: newsfetch.TierHTTP}
		})
		cfg := newsfetch.RunConfig{
			Layout: newsfetch.NewLayout(t.TempDir(), "x"),
			Extra: []map[string]any{
				{"source": "Reuters", "title": "From sheet"},
				nil,
			},
		}

		report, err := r.Run(context.Background(), []string{"https://a.com", "https://b.com"}, cfg, nil)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"source": "Reuters", "input_title": "From sheet"}, report.Batch.Records[0].Extra)
		assert.Nil(t, report.Batch.Records[1].Extra)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		r := newRunner(func(_ context.Context, req newsfetch.FetchRequest) *newsfetch.FetchResult {
			if req.URL == "https://a.com/bad" {
				return &newsfetch.FetchResult{}
			}
			return &newsfetch.FetchResult{HTML: "body", Tier: newsfetch.TierHTTP}
		})

		var mu sync.Mutex
		counts := make(map[scrape.ProgressType]int)
		progress := func(e scrape.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			counts[e.Type]++
			if e.Type == scrape.ProgressFinished {
				assert.Equal(t, 2, e.Completed)
				assert.Equal(t, 2, e.Total)
			}
		}

		_, err := r.Run(context.Background(), []string{"https://a.com/ok", "https://a.com/bad"}, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "x")}, progress)

		require.NoError(t, err)
		assert.Equal(t, 1, counts[scrape.ProgressStarted])
		assert.Equal(t, 1, counts[scrape.ProgressCompleted])
		assert.Equal(t, 1, counts[scrape.ProgressFailed])
		assert.Equal(t, 1, counts[scrape.ProgressFinished])
	})

	t.Run("records batch timestamps", func(t *testing.T) {
		t.Parallel()

		r := newRunner(func(context.Context, newsfetch.FetchRequest) *newsfetch.FetchResult {
			return &newsfetch.FetchResult{}
		})

		report, err := r.Run(context.Background(), []string{"https://a.com"}, newsfetch.RunConfig{Layout: newsfetch.NewLayout(t.TempDir(), "x")}, nil)

		require.NoError(t, err)
		assert.Equal(t, fixedNow, report.Batch.StartedAt)
		assert.Equal(t, fixedNow, report.Batch.FinishedAt)
	})
}
