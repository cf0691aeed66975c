package fs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/newsfetch"
	"gopkg.in/yaml.v3"
)

// Ensure CookieStore implements newsfetch.CookieStore at compile time.
var _ newsfetch.CookieStore = (*CookieStore)(nil)

// DefaultCookieFiles maps known domains to their cookie file names.
func DefaultCookieFiles() map[string]string {
	return map[string]string{
		"linkedin.com":  "linkedin_cookies.json",
		"facebook.com":  "facebook_cookies.json",
		"instagram.com": "instagram_cookies.json",
		"x.com":         "twitter_cookies.json",
		"twitter.com":   "twitter_cookies.json",
	}
}

// CookieStore reads session cookies exported as JSON arrays from files in a
// directory. Files are read on every lookup so they can be refreshed while a
// run is in progress.
type CookieStore struct {
	dir   string
	files map[string]string
}

// NewCookieStore creates a CookieStore reading files relative to dir.
// A nil files map uses DefaultCookieFiles.
func NewCookieStore(dir string, files map[string]string) *CookieStore {
	if files == nil {
		files = DefaultCookieFiles()
	}
	normalized := make(map[string]string, len(files))
	for domain, file := range files {
		normalized[strings.ToLower(strings.TrimPrefix(domain, "."))] = file
	}
	return &CookieStore{dir: dir, files: normalized}
}

// Lookup returns the cookies for the domain matching rawURL. A domain
// matches when the URL host equals it or is a subdomain of it; the longest
// matching domain wins. Missing and unreadable files are reported through
// the lookup status, never as errors.
func (s *CookieStore) Lookup(rawURL string) newsfetch.CookieLookup {
	file, ok := s.match(rawURL)
	if !ok {
		return newsfetch.CookieLookup{Status: newsfetch.CookiesNoMatch}
	}

	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, file)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return newsfetch.CookieLookup{Status: newsfetch.CookiesNotFound, Path: path}
	}
	if err != nil {
		return newsfetch.CookieLookup{Status: newsfetch.CookiesUnreadable, Path: path, Err: err}
	}

	var cookies []newsfetch.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return newsfetch.CookieLookup{Status: newsfetch.CookiesUnreadable, Path: path, Err: err}
	}
	return newsfetch.CookieLookup{Status: newsfetch.CookiesFound, Path: path, Cookies: cookies}
}

func (s *CookieStore) match(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}

	var best string
	for domain := range s.files {
		if host != domain && !strings.HasSuffix(host, "."+domain) {
			continue
		}
		if len(domain) > len(best) {
			best = domain
		}
	}
	if best == "" {
		return "", false
	}
	return s.files[best], true
}

// LoadCookieFiles reads a YAML mapping of domain to cookie file name.
func LoadCookieFiles(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	files := make(map[string]string)
	if err := yaml.Unmarshal(data, &files); err != nil {
		return nil, newsfetch.Errorf(newsfetch.EINVALID, "invalid cookie map %s: %v", path, err)
	}
	for domain, file := range files {
		if domain == "" || file == "" {
			return nil, newsfetch.Errorf(newsfetch.EINVALID, "invalid cookie map %s: empty domain or file", path)
		}
	}
	return files, nil
}
