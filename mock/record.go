package mock

import (
	"context"

	"github.com/fwojciec/newsfetch"
)

var _ newsfetch.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of newsfetch.RecordService.
type RecordService struct {
	FindRecordsFn func(ctx context.Context, filter newsfetch.RecordFilter) ([]*newsfetch.Record, error)
}

func (s *RecordService) FindRecords(ctx context.Context, filter newsfetch.RecordFilter) ([]*newsfetch.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

var _ newsfetch.InputReader = (*InputReader)(nil)

// InputReader is a mock implementation of newsfetch.InputReader.
type InputReader struct {
	ReadInputFn func(path string, opts newsfetch.InputOptions) (*newsfetch.Input, error)
}

func (r *InputReader) ReadInput(path string, opts newsfetch.InputOptions) (*newsfetch.Input, error) {
	return r.ReadInputFn(path, opts)
}
