package newsfetch

import (
	"strings"
	"time"
)

// Method identifies how the HTML behind a record was obtained.
type Method string

// Method constants for Record.
const (
	MethodDirectHTTP      Method = "direct-http"
	MethodBrowserRendered Method = "browser-rendered"
	MethodFailed          Method = "failed"
)

// FailureReason classifies the quality of a scrape. ReasonOK is the only
// value that means the page looked like a readable article.
type FailureReason string

// FailureReason constants in classification priority order.
const (
	ReasonNoResponse   FailureReason = "no response"
	ReasonBlocked      FailureReason = "blocked by Cloudflare / captcha"
	ReasonNotFound     FailureReason = "404 / page not found"
	ReasonShortContent FailureReason = "very short content"
	ReasonJSRequired   FailureReason = "JS required / unsupported browser"
	ReasonNoContent    FailureReason = "no content"
	ReasonOK           FailureReason = "ok"
)

// Record is the unit of output: one per input URL.
// Optional fields are nil when absent. A Record is not modified after the
// pipeline creates it.
type Record struct {
	URL            string
	Content        *string
	PublishTime    *string
	Title          *string
	Author         *string
	ScrapeTime     string
	Method         Method
	FailedReason   FailureReason
	ScreenshotPath string

	// ContentHash is the xxhash of Content; empty when Content is nil.
	ContentHash string

	// Extra holds caller-supplied columns, such as values carried over
	// from the input spreadsheet. Keys must not collide with record fields.
	Extra map[string]any
}

// HasScreenshot reports whether a failure screenshot was captured.
func (r *Record) HasScreenshot() bool {
	return r.ScreenshotPath != ""
}

// Validate returns an error if the record violates its invariants.
func (r *Record) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record url required")
	}
	if r.ScrapeTime == "" {
		return Errorf(EINVALID, "record scrape time required")
	}
	if (r.Method == MethodFailed) != (r.Content == nil) {
		return Errorf(EINVALID, "record method %q inconsistent with content presence", r.Method)
	}
	return nil
}

// Field is a single named value of a record, in output column order.
type Field struct {
	Key   string
	Value any
}

// Record field keys, in output column order.
const (
	FieldURL            = "url"
	FieldContent        = "content"
	FieldPublishTime    = "publishTime"
	FieldTitle          = "title"
	FieldAuthor         = "author"
	FieldScrapeTime     = "scrapeTime"
	FieldMethod         = "method"
	FieldFailedReason   = "failedReason"
	FieldScreenshotPath = "screenshotPath"
	FieldHasScreenshot  = "hasScreenshot"
	FieldContentHash    = "contentHash"
)

// Fields returns the record as ordered key/value pairs. Absent optional
// values are nil. Extra columns follow the fixed fields in the order given
// by sorted keys.
func (r *Record) Fields() []Field {
	fields := []Field{
		{FieldURL, r.URL},
		{FieldContent, optional(r.Content)},
		{FieldPublishTime, optional(r.PublishTime)},
		{FieldTitle, optional(r.Title)},
		{FieldAuthor, optional(r.Author)},
		{FieldScrapeTime, r.ScrapeTime},
		{FieldMethod, string(r.Method)},
		{FieldFailedReason, string(r.FailedReason)},
		{FieldScreenshotPath, r.ScreenshotPath},
		{FieldHasScreenshot, r.HasScreenshot()},
	}
	if r.ContentHash != "" {
		fields = append(fields, Field{FieldContentHash, r.ContentHash})
	}
	for _, k := range sortedKeys(r.Extra) {
		fields = append(fields, Field{k, r.Extra[k]})
	}
	return fields
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Batch is the ordered list of records produced by one run, one record per
// input URL, in input order.
type Batch struct {
	RunID      string
	Prefix     string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []*Record
}

// ValidateURLs trims whitespace from each URL and returns the cleaned list.
// An empty list or a blank entry is an EINVALID error: a malformed list must
// not silently become an empty batch.
func ValidateURLs(urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, Errorf(EINVALID, "no URLs provided")
	}
	cleaned := make([]string, len(urls))
	for i, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			return nil, Errorf(EINVALID, "URL at position %d is blank", i)
		}
		cleaned[i] = u
	}
	return cleaned, nil
}

// FormatTime formats t as the ISO-8601 timestamp used in records.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
