package slog

import (
	"log/slog"

	"github.com/fwojciec/newsfetch"
)

// Ensure LoggingCookieStore implements newsfetch.CookieStore.
var _ newsfetch.CookieStore = (*LoggingCookieStore)(nil)

// LoggingCookieStore wraps a CookieStore and logs lookups that matched a
// known domain. Unreadable files are logged as warnings.
type LoggingCookieStore struct {
	next   newsfetch.CookieStore
	logger *slog.Logger
}

// NewLoggingCookieStore creates a new LoggingCookieStore.
func NewLoggingCookieStore(next newsfetch.CookieStore, logger *slog.Logger) *LoggingCookieStore {
	return &LoggingCookieStore{next: next, logger: logger}
}

// Lookup delegates to the wrapped store and logs the outcome.
func (s *LoggingCookieStore) Lookup(url string) newsfetch.CookieLookup {
	res := s.next.Lookup(url)
	switch res.Status {
	case newsfetch.CookiesNoMatch:
	case newsfetch.CookiesUnreadable:
		s.logger.Warn("cookie file unreadable",
			"url", url,
			"path", res.Path,
			"err", res.Err,
		)
	default:
		s.logger.Info("cookie lookup",
			"url", url,
			"status", res.Status.String(),
			"path", res.Path,
			"count", len(res.Cookies),
		)
	}
	return res
}
