package newsfetch

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the body length, in characters, below which content
// is classified as ReasonShortContent.
const MinContentLength = 100

var notFoundTitleRe = regexp.MustCompile(`(?i)404|not found|page not found`)

// ClassifyFailure inspects the raw HTML, the extracted title and the body
// text and returns the first matching failure reason. An empty title means
// the page had none. The checks run even for successful fetches, so
// ReasonOK is never implied by a fetch succeeding.
func ClassifyFailure(html, title, body string) FailureReason {
	if html == "" {
		return ReasonNoResponse
	}
	lower := strings.ToLower(html)
	if strings.Contains(lower, "cloudflare") || strings.Contains(lower, "captcha") {
		return ReasonBlocked
	}
	if title != "" && notFoundTitleRe.MatchString(title) {
		return ReasonNotFound
	}
	// Empty bodies fall through to ReasonNoContent.
	if body != "" && utf8.RuneCountInString(body) < MinContentLength {
		return ReasonShortContent
	}
	if strings.Contains(strings.ToLower(body), "enable javascript") {
		return ReasonJSRequired
	}
	if body == "" {
		return ReasonNoContent
	}
	return ReasonOK
}
