package mock

import "github.com/fwojciec/newsfetch"

var _ newsfetch.CookieStore = (*CookieStore)(nil)

// CookieStore is a mock implementation of newsfetch.CookieStore.
type CookieStore struct {
	LookupFn func(url string) newsfetch.CookieLookup
}

func (s *CookieStore) Lookup(url string) newsfetch.CookieLookup {
	return s.LookupFn(url)
}
