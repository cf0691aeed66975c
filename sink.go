package newsfetch

import "context"

// Sink serializes a finished batch to one output format.
type Sink interface {
	// Format names the output format, e.g. "json" or "xlsx".
	Format() string

	// Write persists the batch. Failures are reported to the caller, which
	// must not let one format's failure prevent the others.
	Write(ctx context.Context, batch *Batch) error
}
