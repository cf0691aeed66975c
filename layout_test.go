package newsfetch_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/newsfetch"
	"github.com/stretchr/testify/assert"
)

func TestScreenshotName(t *testing.T) {
	t.Parallel()

	t.Run("replaces non-alphanumeric characters", func(t *testing.T) {
		t.Parallel()

		got := newsfetch.ScreenshotName("https://a.com/x?y=1")

		assert.Equal(t, "https___a_com_x_y_1.png", got)
	})

	t.Run("truncates to fifty characters before the suffix", func(t *testing.T) {
		t.Parallel()

		got := newsfetch.ScreenshotName("https://example.com/" + strings.Repeat("a", 100))

		assert.Equal(t, 50+len(".png"), len(got))
		assert.True(t, strings.HasPrefix(got, "https___example_com_"))
	})

	t.Run("multi-byte characters become one underscore", func(t *testing.T) {
		t.Parallel()

		got := newsfetch.ScreenshotName("https://例.com")

		assert.Equal(t, "https_____com.png", got)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		u := "https://news.example.com/2022/12/21/story"
		assert.Equal(t, newsfetch.ScreenshotName(u), newsfetch.ScreenshotName(u))
	})
}

func TestLayout(t *testing.T) {
	t.Parallel()

	l := newsfetch.NewLayout("/tmp/run", "links")

	assert.Equal(t, filepath.Join("/tmp/run", "output_links"), l.OutputDir())
	assert.Equal(t, filepath.Join("/tmp/run", "screenshots_links"), l.ScreenshotDir())
	assert.Equal(t, filepath.Join("/tmp/run", "output_links", "links.json"), l.DataPath("json"))
	assert.Equal(t, filepath.Join("/tmp/run", "output_links", "scraper.log"), l.LogPath())
	assert.Equal(t, filepath.Join("/tmp/run", "screenshots_links", "https___a_com.png"), l.ScreenshotPath("https://a.com"))
}

func TestNewLayout_DefaultPrefix(t *testing.T) {
	t.Parallel()

	l := newsfetch.NewLayout(".", "")

	assert.Equal(t, newsfetch.DefaultPrefix, l.Prefix)
}

func TestPrefixFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "links", newsfetch.PrefixFromPath("/data/links.xlsx"))
	assert.Equal(t, "march.batch", newsfetch.PrefixFromPath("march.batch.csv"))
	assert.Equal(t, newsfetch.DefaultPrefix, newsfetch.PrefixFromPath(""))
}
