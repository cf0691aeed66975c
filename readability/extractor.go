// Package readability provides an alternative article extractor backed by
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/newsfetch"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements newsfetch.Extractor at compile time.
var _ newsfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article fields.
func (e *Extractor) Extract(rawHTML string) (*newsfetch.Extraction, error) {
	if rawHTML == "" {
		return &newsfetch.Extraction{FailedReason: newsfetch.ClassifyFailure("", "", "")}, nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	ext := &newsfetch.Extraction{
		Title:  strings.TrimSpace(article.Title),
		Author: strings.TrimSpace(article.Byline),
		Body:   strings.TrimSpace(article.TextContent),
	}
	if article.PublishedTime != nil {
		ext.PublishTime = *article.PublishedTime
	}
	ext.FailedReason = newsfetch.ClassifyFailure(rawHTML, ext.Title, ext.Body)
	return ext, nil
}
