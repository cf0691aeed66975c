package newsfetch

import "context"

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	// RunID limits results to one run. Nil selects the latest run.
	RunID *string

	// FailedOnly keeps records whose method is failed or whose failure
	// reason is not ok.
	FailedOnly bool

	Limit int
}

// RecordService provides read access to persisted batches.
type RecordService interface {
	// FindRecords returns records matching the filter in input order.
	// Returns ENOTFOUND if no run has been stored.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)
}
