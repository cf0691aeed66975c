// Package rod provides the browser-rendered tier of newsfetch using Chrome
// automation through go-rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/newsfetch"
	nfhttp "github.com/fwojciec/newsfetch/http"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

// DefaultNavigationTimeout bounds navigation plus the network idle wait.
const DefaultNavigationTimeout = 30 * time.Second

// DefaultIdleWindow is how long the network must stay quiet before the page
// counts as idle.
const DefaultIdleWindow = 500 * time.Millisecond

// screenshotTimeout bounds the failure screenshot, which runs after the
// navigation deadline may already have passed.
const screenshotTimeout = 10 * time.Second

// Ensure Renderer implements newsfetch.Renderer at compile time.
var _ newsfetch.Renderer = (*Renderer)(nil)

// Renderer fetches fully rendered HTML with a headless Chrome.
// Every Render call launches its own browser and isolated browsing context
// and releases both before returning; nothing is shared between calls, so
// Renderer is safe for concurrent use.
type Renderer struct {
	cookies           newsfetch.CookieStore
	navigationTimeout time.Duration
	idleWindow        time.Duration
	stealth           bool
	bin               string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithNavigationTimeout sets the navigation and idle wait timeout.
// Defaults to DefaultNavigationTimeout (30s) if not specified.
func WithNavigationTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.navigationTimeout = d
	}
}

// WithIdleWindow sets the quiet period used to detect network idle.
func WithIdleWindow(d time.Duration) Option {
	return func(r *Renderer) {
		r.idleWindow = d
	}
}

// WithCookieStore injects stored session cookies for matching domains.
func WithCookieStore(s newsfetch.CookieStore) Option {
	return func(r *Renderer) {
		r.cookies = s
	}
}

// WithStealth injects scripts that hide common headless-browser signals.
func WithStealth() Option {
	return func(r *Renderer) {
		r.stealth = true
	}
}

// WithBrowserBin uses the Chrome binary at path instead of looking one up.
func WithBrowserBin(path string) Option {
	return func(r *Renderer) {
		r.bin = path
	}
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		navigationTimeout: DefaultNavigationTimeout,
		idleWindow:        DefaultIdleWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render launches a browser, navigates to req.URL, waits for the network to
// go idle and returns the rendered HTML. If navigation fails after a page
// exists, the page is captured to req.ScreenshotPath before returning the
// error. The result is never nil.
func (r *Renderer) Render(ctx context.Context, req newsfetch.FetchRequest) (res *newsfetch.RenderResult, err error) {
	res = &newsfetch.RenderResult{}

	// Check context before launching anything
	if err := ctx.Err(); err != nil {
		return res, err
	}

	l := r.newLauncher()
	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return res, fmt.Errorf("launching browser: %w", err)
	}
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return res, fmt.Errorf("connecting to browser: %w", err)
	}
	defer func() {
		res.CleanupErr = errors.Join(res.CleanupErr, closeErr("browser", browser.Close()))
	}()

	incognito, err := browser.Incognito()
	if err != nil {
		return res, fmt.Errorf("creating browsing context: %w", err)
	}
	defer func() {
		res.CleanupErr = errors.Join(res.CleanupErr, closeErr("browsing context", incognito.Close()))
	}()

	if r.cookies != nil {
		res.Cookies = r.cookies.Lookup(req.URL)
		if res.Cookies.Status == newsfetch.CookiesFound && len(res.Cookies.Cookies) > 0 {
			if err := incognito.SetCookies(CookieParams(res.Cookies.Cookies, req.URL)); err != nil {
				res.Cookies.Status = newsfetch.CookiesRejected
				res.Cookies.Err = err
			}
		}
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return res, fmt.Errorf("creating page: %w", err)
	}
	defer func() {
		res.CleanupErr = errors.Join(res.CleanupErr, closeErr("page", page.Close()))
	}()

	html, navErr := r.navigate(ctx, page, req.URL)
	if navErr == nil {
		res.HTML = html
		return res, nil
	}

	if req.ScreenshotPath == "" {
		return res, navErr
	}
	if err := screenshot(page, req.ScreenshotPath); err != nil {
		return res, errors.Join(navErr, fmt.Errorf("capturing screenshot: %w", err))
	}
	res.ScreenshotPath = req.ScreenshotPath
	return res, navErr
}

func (r *Renderer) newLauncher() *launcher.Launcher {
	l := launcher.New().
		Set("disable-dev-shm-usage").
		Set("disable-background-timer-throttling").
		Leakless(true).
		Headless(true)
	if r.bin != "" {
		l = l.Bin(r.bin)
	}
	return l
}

// navigate loads url in page and returns the rendered HTML.
// The navigation timeout covers the load and the network idle wait.
func (r *Renderer) navigate(ctx context.Context, page *rod.Page, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.navigationTimeout)
	defer cancel()
	p := page.Context(ctx)

	if r.stealth {
		if _, err := p.EvalOnNewDocument(stealth.JS); err != nil {
			return "", fmt.Errorf("injecting stealth script: %w", err)
		}
	}

	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      nfhttp.UserAgent,
		AcceptLanguage: nfhttp.AcceptLanguage,
	}); err != nil {
		return "", fmt.Errorf("setting user agent: %w", err)
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{"Referer": gson.New(nfhttp.Referer)},
	}).Call(p); err != nil {
		return "", fmt.Errorf("setting headers: %w", err)
	}

	// The idle waiter must be installed before navigation or in-flight
	// requests are missed.
	waitIdle := p.WaitRequestIdle(r.idleWindow, nil, nil, nil)

	if err := p.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("waiting for load: %w", err)
	}
	waitIdle()
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("waiting for network idle: %w", err)
	}

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("reading HTML: %w", err)
	}
	return html, nil
}

// screenshot captures the current viewport of page to path. It uses its own
// timeout because the navigation context may have expired.
func screenshot(page *rod.Page, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	img, err := page.Timeout(screenshotTimeout).Screenshot(false, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, img, 0644)
}

// CookieParams converts stored cookies into CDP cookie parameters.
// Cookies with neither a domain nor a URL are scoped to pageURL.
func CookieParams(cookies []newsfetch.Cookie, pageURL string) []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			URL:      c.URL,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		}
		if p.URL == "" && p.Domain == "" {
			p.URL = pageURL
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		switch strings.ToLower(c.SameSite) {
		case "strict":
			p.SameSite = proto.NetworkCookieSameSiteStrict
		case "lax":
			p.SameSite = proto.NetworkCookieSameSiteLax
		case "none":
			p.SameSite = proto.NetworkCookieSameSiteNone
		}
		params = append(params, p)
	}
	return params
}

func closeErr(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("closing %s: %w", what, err)
}
