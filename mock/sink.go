package mock

import (
	"context"

	"github.com/fwojciec/newsfetch"
)

var _ newsfetch.Sink = (*Sink)(nil)

// Sink is a mock implementation of newsfetch.Sink.
type Sink struct {
	FormatFn func() string
	WriteFn  func(ctx context.Context, batch *newsfetch.Batch) error
}

func (s *Sink) Format() string {
	return s.FormatFn()
}

func (s *Sink) Write(ctx context.Context, batch *newsfetch.Batch) error {
	return s.WriteFn(ctx, batch)
}
