package slog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/mock"
	nfslog "github.com/fwojciec/newsfetch/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingCookieStore_Lookup(t *testing.T) {
	t.Parallel()

	lookup := func(res newsfetch.CookieLookup) (*bytes.Buffer, newsfetch.CookieLookup) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CookieStore{
			LookupFn: func(url string) newsfetch.CookieLookup { return res },
		}
		got := nfslog.NewLoggingCookieStore(inner, logger).Lookup("https://www.linkedin.com/feed")
		return &buf, got
	}

	t.Run("stays quiet when no domain matches", func(t *testing.T) {
		t.Parallel()

		buf, got := lookup(newsfetch.CookieLookup{Status: newsfetch.CookiesNoMatch})

		assert.Equal(t, newsfetch.CookiesNoMatch, got.Status)
		assert.Empty(t, buf.String())
	})

	t.Run("logs found cookies at info", func(t *testing.T) {
		t.Parallel()

		buf, got := lookup(newsfetch.CookieLookup{
			Status:  newsfetch.CookiesFound,
			Path:    "cookies/linkedin_cookies.json",
			Cookies: []newsfetch.Cookie{{Name: "li_at", Value: "x"}},
		})

		assert.Len(t, got.Cookies, 1)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "status=found")
		assert.Contains(t, output, "path=cookies/linkedin_cookies.json")
		assert.Contains(t, output, "count=1")
	})

	t.Run("warns on unreadable file", func(t *testing.T) {
		t.Parallel()

		buf, _ := lookup(newsfetch.CookieLookup{
			Status: newsfetch.CookiesUnreadable,
			Path:   "cookies/linkedin_cookies.json",
			Err:    errors.New("bad json"),
		})

		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "err=\"bad json\"")
	})
}
