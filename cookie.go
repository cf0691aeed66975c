package newsfetch

// Cookie is a browser session cookie in the JSON shape exported by browser
// automation tools.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	URL      string  `json:"url,omitempty"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// CookieStatus is the outcome of a cookie lookup.
type CookieStatus int

// CookieStatus constants.
const (
	// CookiesNoMatch means no known domain matches the URL.
	CookiesNoMatch CookieStatus = iota
	CookiesFound
	// CookiesNotFound means the domain is known but its file does not exist.
	CookiesNotFound
	// CookiesUnreadable means the file exists but could not be read or parsed.
	CookiesUnreadable
	// CookiesRejected means the cookies were loaded but the browser refused them.
	CookiesRejected
)

// String returns the status name.
func (s CookieStatus) String() string {
	switch s {
	case CookiesFound:
		return "found"
	case CookiesNotFound:
		return "not_found"
	case CookiesUnreadable:
		return "unreadable"
	case CookiesRejected:
		return "rejected"
	default:
		return "no_match"
	}
}

// CookieLookup is the tagged result of CookieStore.Lookup. Only
// CookiesFound carries cookies; the other statuses are never errors for
// the caller, Err only explains CookiesUnreadable and CookiesRejected.
type CookieLookup struct {
	Status  CookieStatus
	Path    string
	Cookies []Cookie
	Err     error
}

// CookieStore supplies stored session cookies for known domains.
type CookieStore interface {
	Lookup(url string) CookieLookup
}
