package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Layout  newsfetch.Layout
	Inputs  newsfetch.InputReader
	Runner  *scrape.Runner
	Records newsfetch.RecordService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape ScrapeCmd `cmd:"" help:"Scrape article URLs into JSON, XLSX, CSV and SQLite files"`
	Failed FailedCmd `cmd:"" help:"List URLs that failed in the latest run"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Input  string   `arg:"" optional:"" help:"Spreadsheet (.xlsx) or CSV file with a URL column"`
	URLs   []string `name:"urls" sep:"," env:"NEWSFETCH_URLS" help:"URLs to scrape instead of an input file"`
	Column string   `default:"url" env:"NEWSFETCH_COLUMN" help:"Input column holding the URLs"`
	Keep   []string `sep:"," help:"Input columns to carry into the output records"`
	Out    string   `default:"." env:"NEWSFETCH_OUT" help:"Base directory for output and screenshots"`

	Concurrency    int           `short:"c" default:"5" env:"NEWSFETCH_CONCURRENCY" help:"URLs processed in parallel"`
	HTTPTimeout    time.Duration `name:"http-timeout" default:"10s" env:"NEWSFETCH_HTTP_TIMEOUT" help:"Timeout for the plain HTTP fetch"`
	BrowserTimeout time.Duration `default:"30s" env:"NEWSFETCH_BROWSER_TIMEOUT" help:"Timeout for browser navigation and network idle"`
	MinDelay       time.Duration `default:"1s" env:"NEWSFETCH_MIN_DELAY" help:"Minimum politeness delay before each URL"`
	MaxDelay       time.Duration `default:"3s" env:"NEWSFETCH_MAX_DELAY" help:"Maximum politeness delay before each URL"`

	Extractor      string `default:"heuristic" enum:"heuristic,readability,trafilatura" env:"NEWSFETCH_EXTRACTOR" help:"Article extractor (${enum})"`
	CookieDir      string `default:"." env:"NEWSFETCH_COOKIE_DIR" help:"Directory holding exported session cookie files"`
	CookieMap      string `env:"NEWSFETCH_COOKIE_MAP" help:"YAML file mapping domains to cookie files"`
	Browser        string `env:"NEWSFETCH_BROWSER" help:"Path to a Chrome or Chromium binary"`
	Stealth        bool   `env:"NEWSFETCH_STEALTH" help:"Hide headless browser signals"`
	TLSFingerprint bool   `name:"tls-fingerprint" env:"NEWSFETCH_TLS_FINGERPRINT" help:"Present a Chrome TLS fingerprint on HTTPS fetches"`
	NoSqlite       bool   `name:"no-sqlite" help:"Skip the SQLite output"`
	Verbose        bool   `short:"v" help:"Echo the run log to stderr"`
}

// FailedCmd is the "failed" subcommand.
type FailedCmd struct {
	Input       string `arg:"" optional:"" help:"Input file of the run; its name selects the output directory"`
	Out         string `default:"." env:"NEWSFETCH_OUT" help:"Base directory for output"`
	RunID       string `name:"run" help:"Run ID to inspect instead of the latest run"`
	Limit       int    `short:"n" help:"Maximum number of URLs to list"`
	WithReasons bool   `name:"with-reasons" help:"Print the failure reason next to each URL"`
}
