package mock

import (
	"context"

	"github.com/fwojciec/newsfetch"
)

var _ newsfetch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of newsfetch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ newsfetch.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of newsfetch.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, req newsfetch.FetchRequest) (*newsfetch.RenderResult, error)
}

func (r *Renderer) Render(ctx context.Context, req newsfetch.FetchRequest) (*newsfetch.RenderResult, error) {
	return r.RenderFn(ctx, req)
}

var _ newsfetch.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of newsfetch.PageFetcher.
type PageFetcher struct {
	FetchFn func(ctx context.Context, req newsfetch.FetchRequest) *newsfetch.FetchResult
}

func (f *PageFetcher) Fetch(ctx context.Context, req newsfetch.FetchRequest) *newsfetch.FetchResult {
	return f.FetchFn(ctx, req)
}
