package newsfetch

import (
	"fmt"
	"slices"
	"strings"
)

// Summary counts records by outcome.
type Summary struct {
	Total   int
	OK      int
	Failed  int
	Reasons map[FailureReason]int
}

// Summarize counts the records of a batch by method and failure reason.
func Summarize(records []*Record) Summary {
	s := Summary{Total: len(records), Reasons: make(map[FailureReason]int)}
	for _, r := range records {
		if r.Method == MethodFailed {
			s.Failed++
		}
		if r.FailedReason == ReasonOK {
			s.OK++
		}
		s.Reasons[r.FailedReason]++
	}
	return s
}

// FormatSummary formats a summary for display.
// Reasons are listed by descending count, then by name.
func FormatSummary(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d URLs: %d ok, %d failed to fetch", s.Total, s.OK, s.Failed)

	reasons := make([]FailureReason, 0, len(s.Reasons))
	for r := range s.Reasons {
		if r != ReasonOK {
			reasons = append(reasons, r)
		}
	}
	slices.SortFunc(reasons, func(a, b FailureReason) int {
		if d := s.Reasons[b] - s.Reasons[a]; d != 0 {
			return d
		}
		return strings.Compare(string(a), string(b))
	})
	for _, r := range reasons {
		fmt.Fprintf(&b, "\n  %s: %d", r, s.Reasons[r])
	}
	return b.String()
}
