package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/csv"
	"github.com/fwojciec/newsfetch/dateparse"
	"github.com/fwojciec/newsfetch/excelize"
	"github.com/fwojciec/newsfetch/fs"
	"github.com/fwojciec/newsfetch/goquery"
	nfhttp "github.com/fwojciec/newsfetch/http"
	"github.com/fwojciec/newsfetch/json"
	"github.com/fwojciec/newsfetch/readability"
	"github.com/fwojciec/newsfetch/rod"
	"github.com/fwojciec/newsfetch/scrape"
	nfslog "github.com/fwojciec/newsfetch/slog"
	"github.com/fwojciec/newsfetch/sqlite"
	"github.com/fwojciec/newsfetch/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the sqlite sink and the failed command.
	DB *sqlite.DB

	// Run log file, open while a scrape runs.
	LogFile *os.File
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	if m.LogFile != nil {
		errs = append(errs, m.LogFile.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsfetch"),
		kong.Description("Fetch news articles and extract their text, title, author and publish time"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsfetch --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	switch strings.Fields(kongCtx.Command())[0] {
	case "scrape":
		if err := m.wireScrape(deps, &cli.Scrape); err != nil {
			return err
		}
	case "failed":
		if err := m.wireFailed(deps, &cli.Failed); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireScrape builds the scraping stack: input reader, run log, both fetch
// tiers, extractor and every output sink.
func (m *Main) wireScrape(deps *Dependencies, c *ScrapeCmd) error {
	if c.Input == "" && len(c.URLs) == 0 {
		return fmt.Errorf("an input file or --urls is required")
	}
	if c.MinDelay > c.MaxDelay {
		return fmt.Errorf("--min-delay (%s) exceeds --max-delay (%s)", c.MinDelay, c.MaxDelay)
	}

	prefix := newsfetch.DefaultPrefix
	if c.Input != "" {
		reader, err := inputReader(c.Input)
		if err != nil {
			return err
		}
		deps.Inputs = reader
		prefix = newsfetch.PrefixFromPath(c.Input)
	}
	deps.Layout = newsfetch.NewLayout(c.Out, prefix)

	logger, err := m.openRunLog(deps.Layout, deps.Stderr, c.Verbose)
	if err != nil {
		return err
	}

	var cookieFiles map[string]string
	if c.CookieMap != "" {
		if cookieFiles, err = fs.LoadCookieFiles(c.CookieMap); err != nil {
			return err
		}
	}
	cookies := nfslog.NewLoggingCookieStore(fs.NewCookieStore(c.CookieDir, cookieFiles), logger)

	httpOpts := []nfhttp.Option{nfhttp.WithTimeout(c.HTTPTimeout)}
	if c.TLSFingerprint {
		httpOpts = append(httpOpts, nfhttp.WithBrowserTLS())
	}
	direct := nfslog.NewLoggingFetcher(nfhttp.NewFetcher(httpOpts...), logger)

	renderOpts := []rod.Option{
		rod.WithNavigationTimeout(c.BrowserTimeout),
		rod.WithCookieStore(cookies),
	}
	if c.Stealth {
		renderOpts = append(renderOpts, rod.WithStealth())
	}
	if c.Browser != "" {
		renderOpts = append(renderOpts, rod.WithBrowserBin(c.Browser))
	}
	browser := nfslog.NewLoggingRenderer(rod.NewRenderer(renderOpts...), logger)

	fetcher := scrape.NewTieredFetcher(direct, browser, logger)
	fetcher.MinDelay = c.MinDelay
	fetcher.MaxDelay = c.MaxDelay

	sinks := []newsfetch.Sink{
		json.NewSink(deps.Layout.DataPath("json")),
		excelize.NewSink(deps.Layout.DataPath("xlsx")),
		csv.NewSink(deps.Layout.DataPath("csv")),
	}
	if !c.NoSqlite {
		m.DB = sqlite.NewDB(deps.Layout.DataPath("db"))
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: use --no-sqlite to skip the database output")
			return fmt.Errorf("failed to open database: %w", err)
		}
		sinks = append(sinks, sqlite.NewSink(m.DB))
	}
	for i, s := range sinks {
		sinks[i] = nfslog.NewLoggingSink(s, logger)
	}

	deps.Runner = &scrape.Runner{
		Pipeline: &scrape.Pipeline{
			Fetcher:   fetcher,
			Extractor: newExtractor(c.Extractor),
			Logger:    logger,
		},
		Sinks:       sinks,
		Concurrency: c.Concurrency,
		Logger:      logger,
	}
	return nil
}

// wireFailed opens the database of an earlier run.
func (m *Main) wireFailed(deps *Dependencies, c *FailedCmd) error {
	prefix := newsfetch.DefaultPrefix
	if c.Input != "" {
		prefix = newsfetch.PrefixFromPath(c.Input)
	}
	deps.Layout = newsfetch.NewLayout(c.Out, prefix)

	path := deps.Layout.DataPath("db")
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: pass the input file of the run and the same --out as the scrape")
		return fmt.Errorf("no database at %q: %w", path, err)
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	deps.Records = sqlite.NewRecordService(m.DB)
	return nil
}

// openRunLog creates the output directory and returns a logger writing to
// the run log, and to stderr when verbose.
func (m *Main) openRunLog(layout newsfetch.Layout, stderr io.Writer, verbose bool) (*slog.Logger, error) {
	if err := os.MkdirAll(layout.OutputDir(), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.OpenFile(layout.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	m.LogFile = f

	var w io.Writer = f
	if verbose {
		w = io.MultiWriter(stderr, f)
	}
	return slog.New(slog.NewTextHandler(w, nil)), nil
}

// inputReader picks the reader for an input file by its extension.
func inputReader(path string) (newsfetch.InputReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return excelize.Reader{}, nil
	case ".csv":
		return csv.Reader{}, nil
	default:
		return nil, newsfetch.Errorf(newsfetch.EINVALID, "unsupported input file %q: expected .xlsx or .csv", path)
	}
}

// newExtractor returns the named article extractor. The heuristic extractor
// is the default.
func newExtractor(name string) newsfetch.Extractor {
	switch name {
	case "readability":
		return readability.NewExtractor()
	case "trafilatura":
		return trafilatura.NewExtractor()
	default:
		return goquery.NewExtractor(dateparse.NewParser())
	}
}
