// Package goquery extracts article fields from HTML using goquery.
package goquery

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsfetch"
	"golang.org/x/net/html"
)

// Ensure Extractor implements newsfetch.Extractor at compile time.
var _ newsfetch.Extractor = (*Extractor)(nil)

// publishMetaSelectors lists meta tags carrying a publish date, in priority
// order.
var publishMetaSelectors = []string{
	`meta[name="pubdate"]`,
	`meta[name="publishdate"]`,
	`meta[name="date"]`,
	`meta[name="dc.date.issued"]`,
	`meta[property="article:published_time"]`,
	`meta[property="og:pubdate"]`,
	`meta[itemprop="datePublished"]`,
}

var (
	dateClassRe = regexp.MustCompile(`(?i)(date|meta|info|time)`)

	// publishedDateRe captures "Dec 21, 2022 10:00 AM SGT" from text such
	// as "Published: Dec 21, 2022 10:00 AM SGT".
	publishedDateRe = regexp.MustCompile(`(?i)(?:published\W*)?(\w+ \d{1,2}, \d{4}[^\n]*)`)
)

// Extractor derives title, author, publish time and body text from news
// pages. It is safe for concurrent use if its DateParser is.
type Extractor struct {
	dates newsfetch.DateParser
}

// NewExtractor creates a new Extractor that parses date candidates with dates.
func NewExtractor(dates newsfetch.DateParser) *Extractor {
	return &Extractor{dates: dates}
}

// Extract parses html and returns the article fields. The failure reason is
// always classified, including for well-formed pages.
func (e *Extractor) Extract(rawHTML string) (*newsfetch.Extraction, error) {
	if rawHTML == "" {
		return &newsfetch.Extraction{FailedReason: newsfetch.ClassifyFailure("", "", "")}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, newsfetch.Errorf(newsfetch.EINVALID, "failed to parse HTML: %v", err)
	}

	ext := &newsfetch.Extraction{
		Title:       extractTitle(doc),
		Author:      extractAuthor(doc),
		PublishTime: e.extractPublishTime(doc),
		Body:        extractBody(doc),
	}
	ext.FailedReason = newsfetch.ClassifyFailure(rawHTML, ext.Title, ext.Body)
	return ext, nil
}

func extractTitle(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && content != "" {
		return strings.TrimSpace(content)
	}
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return ""
	}
	return strippedText(title.Nodes[0])
}

func extractAuthor(doc *goquery.Document) string {
	content, _ := doc.Find(`meta[name="author"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

// extractBody joins the text of every paragraph in document order.
func extractBody(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		paragraphs = append(paragraphs, strippedText(s.Nodes[0]))
	})
	return strings.Join(paragraphs, "\n")
}

// extractPublishTime tries meta tags, then the first <time datetime>, then
// date-like blocks mentioning "published". A candidate that fails to parse
// moves on to the next rule.
func (e *Extractor) extractPublishTime(doc *goquery.Document) time.Time {
	for _, sel := range publishMetaSelectors {
		content, ok := doc.Find(sel).First().Attr("content")
		if !ok || content == "" {
			continue
		}
		if t, err := e.dates.Parse(content); err == nil {
			return t
		}
	}

	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		if t, err := e.dates.Parse(dt); err == nil {
			return t
		}
	}

	var found time.Time
	doc.Find("div, span, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		if !ok || !dateClassRe.MatchString(class) {
			return true
		}
		text := spacedText(s.Nodes[0])
		if !strings.Contains(strings.ToLower(text), "published") {
			return true
		}
		m := publishedDateRe.FindStringSubmatch(text)
		if m == nil {
			return true
		}
		t, err := e.dates.Parse(m[1])
		if err != nil {
			return true
		}
		found = t
		return false
	})
	return found
}

// strippedText concatenates the trimmed text nodes under n, skipping
// scripts and styles.
func strippedText(n *html.Node) string {
	var b strings.Builder
	walkText(n, func(s string) {
		b.WriteString(s)
	})
	return b.String()
}

// spacedText is strippedText with a space between text nodes.
func spacedText(n *html.Node) string {
	var parts []string
	walkText(n, func(s string) {
		parts = append(parts, s)
	})
	return strings.Join(parts, " ")
}

func walkText(n *html.Node, fn func(string)) {
	switch n.Type {
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			fn(s)
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "template":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, fn)
	}
}
