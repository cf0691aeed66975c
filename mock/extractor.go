package mock

import (
	"time"

	"github.com/fwojciec/newsfetch"
)

var _ newsfetch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of newsfetch.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*newsfetch.Extraction, error)
}

func (e *Extractor) Extract(html string) (*newsfetch.Extraction, error) {
	return e.ExtractFn(html)
}

var _ newsfetch.DateParser = (*DateParser)(nil)

// DateParser is a mock implementation of newsfetch.DateParser.
type DateParser struct {
	ParseFn func(s string) (time.Time, error)
}

func (p *DateParser) Parse(s string) (time.Time, error) {
	return p.ParseFn(s)
}
