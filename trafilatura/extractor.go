// Package trafilatura provides an alternative article extractor backed by
// go-trafilatura, which scores content blocks instead of collecting every
// paragraph.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/newsfetch"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements newsfetch.Extractor at compile time.
var _ newsfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main article text and its
// metadata from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article fields. Pages too short
// for trafilatura to find a main block return an error.
func (e *Extractor) Extract(rawHTML string) (*newsfetch.Extraction, error) {
	if rawHTML == "" {
		return &newsfetch.Extraction{FailedReason: newsfetch.ClassifyFailure("", "", "")}, nil
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	ext := &newsfetch.Extraction{
		Title:       strings.TrimSpace(result.Metadata.Title),
		Author:      strings.TrimSpace(result.Metadata.Author),
		PublishTime: result.Metadata.Date,
		Body:        strings.TrimSpace(result.ContentText),
	}
	ext.FailedReason = newsfetch.ClassifyFailure(rawHTML, ext.Title, ext.Body)
	return ext, nil
}
