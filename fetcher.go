package newsfetch

import "context"

// Fetcher retrieves HTML from URLs without executing JavaScript.
// Implementations return an error for any response other than 200 OK.
type Fetcher interface {
	// Fetch returns the response body for the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// FetchRequest describes a single page fetch.
type FetchRequest struct {
	URL string

	// ScreenshotPath is where a failure screenshot is written, if one is
	// captured. Empty disables screenshots.
	ScreenshotPath string
}

// RenderResult is the outcome of a browser-rendered fetch.
type RenderResult struct {
	// HTML is the fully rendered document; empty on failure.
	HTML string

	// ScreenshotPath is set when navigation failed and the page state was
	// captured to disk.
	ScreenshotPath string

	// Cookies reports the session cookie lookup made for the URL.
	Cookies CookieLookup

	// CleanupErr holds errors from closing the page, browsing context or
	// browser. Cleanup always runs; this only makes failures visible.
	CleanupErr error
}

// Renderer fetches pages with a full headless browser.
type Renderer interface {
	// Render navigates to req.URL and returns the rendered HTML.
	// On failure it returns a non-nil result carrying any screenshot
	// together with the error.
	Render(ctx context.Context, req FetchRequest) (*RenderResult, error)
}

// Tier identifies which fetch strategy produced a page.
type Tier int

// Tier constants.
const (
	TierNone Tier = iota
	TierHTTP
	TierBrowser
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierHTTP:
		return "http"
	case TierBrowser:
		return "browser"
	default:
		return "none"
	}
}

// FetchResult is the outcome of the two-tier fetch for one URL.
// HTML is empty when no tier succeeded; ScreenshotPath may then carry a
// failure artifact.
type FetchResult struct {
	HTML           string
	Tier           Tier
	ScreenshotPath string
}

// Method maps the producing tier to the record method.
func (r *FetchResult) Method() Method {
	switch {
	case r.HTML == "":
		return MethodFailed
	case r.Tier == TierBrowser:
		return MethodBrowserRendered
	default:
		return MethodDirectHTTP
	}
}

// PageFetcher fetches one page, trying every available tier.
// It never returns an error: total failure is an empty FetchResult.
type PageFetcher interface {
	Fetch(ctx context.Context, req FetchRequest) *FetchResult
}
