package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	var extra []map[string]any
	if c.Input != "" {
		input, err := deps.Inputs.ReadInput(c.Input, newsfetch.InputOptions{Column: c.Column, Keep: c.Keep})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", newsfetch.ErrorMessage(err))
			return err
		}
		urls, extra = input.URLs, input.Extra
	}

	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Scraping %d URLs\n", event.Total)
		case scrape.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s %s (%s)\n",
				event.Completed, event.Total, event.Record.Method, scrape.TruncateURL(event.URL, 60), event.Record.FailedReason)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] failed %s (%s)\n",
				event.Completed, event.Total, scrape.TruncateURL(event.URL, 60), event.Record.FailedReason)
		case scrape.ProgressFinished:
			// Summary printed after the sinks run
		}
	}

	report, err := deps.Runner.Run(deps.Ctx, urls, newsfetch.RunConfig{Layout: deps.Layout, Extra: extra}, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsfetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, newsfetch.FormatSummary(newsfetch.Summarize(report.Batch.Records)))
	fmt.Fprintf(deps.Stdout, "Output in %s\n", deps.Layout.OutputDir())

	if len(report.WriteErrors) == 0 {
		return nil
	}
	formats := make([]string, 0, len(report.WriteErrors))
	for format := range report.WriteErrors {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	for _, format := range formats {
		fmt.Fprintf(deps.Stderr, "error writing %s: %v\n", format, report.WriteErrors[format])
	}
	return fmt.Errorf("%d of %d output formats failed", len(formats), len(deps.Runner.Sinks))
}
