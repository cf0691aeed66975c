package newsfetch

import "time"

// Extraction holds the article fields derived from an HTML page.
type Extraction struct {
	// Title is the Open Graph title or the document title; empty if absent.
	Title string

	// Author is the author meta tag content; empty if absent.
	Author string

	// PublishTime is zero when no date candidate parsed.
	PublishTime time.Time

	// Body is the text of every paragraph in document order, joined with
	// newlines.
	Body string

	FailedReason FailureReason
}

// Extractor derives article fields from raw HTML.
type Extractor interface {
	Extract(html string) (*Extraction, error)
}

// DateParser parses date strings found in pages into absolute timestamps.
type DateParser interface {
	Parse(s string) (time.Time, error)
}
