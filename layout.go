package newsfetch

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultPrefix is used when no input source name is available.
const DefaultPrefix = "default"

// Layout computes the on-disk locations of a run's output artifacts:
//
//	<base>/output_<prefix>/<prefix>.{json,xlsx,csv,db}
//	<base>/output_<prefix>/scraper.log
//	<base>/screenshots_<prefix>/<sanitized-url>.png
type Layout struct {
	BaseDir string
	Prefix  string
}

// NewLayout returns a Layout rooted at baseDir. An empty prefix becomes
// DefaultPrefix.
func NewLayout(baseDir, prefix string) Layout {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Layout{BaseDir: baseDir, Prefix: prefix}
}

// OutputDir returns the directory holding data files and the run log.
func (l Layout) OutputDir() string {
	return filepath.Join(l.BaseDir, "output_"+l.Prefix)
}

// ScreenshotDir returns the directory holding failure screenshots.
func (l Layout) ScreenshotDir() string {
	return filepath.Join(l.BaseDir, "screenshots_"+l.Prefix)
}

// DataPath returns the path of the data file with the given extension.
func (l Layout) DataPath(ext string) string {
	return filepath.Join(l.OutputDir(), l.Prefix+"."+ext)
}

// LogPath returns the run log path.
func (l Layout) LogPath() string {
	return filepath.Join(l.OutputDir(), "scraper.log")
}

// ScreenshotPath returns the deterministic screenshot path for a URL.
func (l Layout) ScreenshotPath(url string) string {
	return filepath.Join(l.ScreenshotDir(), ScreenshotName(url))
}

// maxScreenshotStem bounds the sanitized URL part of a screenshot name.
const maxScreenshotStem = 50

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ScreenshotName derives a file name from a URL: every non-alphanumeric
// character becomes an underscore, the result is cut to 50 characters and
// gets a .png suffix. Distinct URLs sharing a 50-character prefix collide.
func ScreenshotName(url string) string {
	stem := nonAlnumRe.ReplaceAllString(url, "_")
	if len(stem) > maxScreenshotStem {
		stem = stem[:maxScreenshotStem]
	}
	return stem + ".png"
}

// PrefixFromPath returns the file name stem of an input path, used as the
// output prefix.
func PrefixFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return DefaultPrefix
	}
	return stem
}

// RunConfig carries the per-run settings through the orchestrator to the
// fetcher's screenshot paths and the output sinks.
type RunConfig struct {
	RunID  string
	Layout Layout

	// Extra is aligned with the run's URLs and is copied into each
	// record's extra columns. Optional.
	Extra []map[string]any
}
