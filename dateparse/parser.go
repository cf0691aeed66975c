// Package dateparse turns date strings scraped from pages into absolute
// timestamps.
package dateparse

import (
	"strings"
	"time"

	araddon "github.com/araddon/dateparse"
	"github.com/fwojciec/newsfetch"
	dps "github.com/markusmobius/go-dateparser"
)

// Ensure Parser implements newsfetch.DateParser at compile time.
var _ newsfetch.DateParser = (*Parser)(nil)

// Parser tries machine-readable layouts first and falls back to
// natural-language parsing ("Published 3 days ago", "21 décembre 2022").
type Parser struct {
	loc *time.Location
	cfg *dps.Configuration
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the zone assumed for strings without an offset.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		p.loc = loc
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{loc: time.UTC}
	for _, opt := range opts {
		opt(p)
	}
	p.cfg = &dps.Configuration{DefaultTimezone: p.loc}
	return p
}

// Parse returns the instant described by s.
func (p *Parser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, newsfetch.Errorf(newsfetch.EINVALID, "empty date string")
	}

	if t, err := araddon.ParseIn(s, p.loc); err == nil {
		return t, nil
	}

	d, err := dps.Parse(p.cfg, s)
	if err != nil {
		return time.Time{}, newsfetch.Errorf(newsfetch.EINVALID, "unrecognized date %q", s)
	}
	if d.Time.IsZero() {
		return time.Time{}, newsfetch.Errorf(newsfetch.EINVALID, "unrecognized date %q", s)
	}
	return d.Time, nil
}
