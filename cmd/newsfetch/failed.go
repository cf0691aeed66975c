package main

import (
	"fmt"

	"github.com/fwojciec/newsfetch"
)

// Run executes the failed command.
func (c *FailedCmd) Run(deps *Dependencies) error {
	filter := newsfetch.RecordFilter{FailedOnly: true, Limit: c.Limit}
	if c.RunID != "" {
		filter.RunID = &c.RunID
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsfetch.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stderr, "No failed URLs.")
		return nil
	}

	for _, r := range records {
		if c.WithReasons {
			fmt.Fprintf(deps.Stdout, "%s\t%s\t%s\n", r.URL, r.Method, r.FailedReason)
			continue
		}
		fmt.Fprintln(deps.Stdout, r.URL)
	}
	return nil
}
