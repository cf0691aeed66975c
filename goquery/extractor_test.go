package goquery_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/dateparse"
	"github.com/fwojciec/newsfetch/goquery"
	"github.com/fwojciec/newsfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDates parses the strings in known and rejects everything else.
func stubDates(known map[string]time.Time) *mock.DateParser {
	return &mock.DateParser{
		ParseFn: func(s string) (time.Time, error) {
			if t, ok := known[s]; ok {
				return t, nil
			}
			return time.Time{}, errors.New("unparseable")
		},
	}
}

var longParagraph = strings.Repeat("Markets rallied on Tuesday. ", 5)

func TestExtractor_Extract_Body(t *testing.T) {
	t.Parallel()

	t.Run("joins paragraph text with newlines", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<p>First   paragraph.</p>
<div><p>Second <b>bold</b> paragraph.</p></div>
<p>Third</p>
</body></html>`

		ext, err := goquery.NewExtractor(stubDates(nil)).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "First   paragraph.\nSecondboldparagraph.\nThird", ext.Body)
	})

	t.Run("skips scripts inside paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Visible<script>var hidden = 1;</script></p></body></html>`

		ext, err := goquery.NewExtractor(stubDates(nil)).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Visible", ext.Body)
	})

	t.Run("returns empty body without paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Home</title></head><body><div>No paragraphs</div></body></html>`

		ext, err := goquery.NewExtractor(stubDates(nil)).Extract(html)

		require.NoError(t, err)
		assert.Empty(t, ext.Body)
		assert.Equal(t, newsfetch.ReasonNoContent, ext.FailedReason)
	})
}

func TestExtractor_Extract_TitleAndAuthor(t *testing.T) {
	t.Parallel()

	t.Run("prefers Open Graph title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<title>Site | Story</title>
<meta property="og:title" content="  Story headline ">
<meta name="author" content=" Jane Reporter ">
</head><body><p>` + longParagraph + `</p></body></html>`

		ext, err := goquery.NewExtractor(stubDates(nil)).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Story headline", ext.Title)
		assert.Equal(t, "Jane Reporter", ext.Author)
		assert.Equal(t, newsfetch.ReasonOK, ext.FailedReason)
	})

	t.Run("falls back to title element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>
  Plain title
</title><meta property="og:title" content=""></head><body></body></html>`

		ext, err := goquery.NewExtractor(stubDates(nil)).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Plain title", ext.Title)
		assert.Empty(t, ext.Author)
	})

	t.Run("returns empty title when absent", func(t *testing.T) {
		t.Parallel()

		ext, err := goquery.NewExtractor(stubDates(nil)).Extract(`<html><body><p>x</p></body></html>`)

		require.NoError(t, err)
		assert.Empty(t, ext.Title)
	})
}

func TestExtractor_Extract_PublishTime(t *testing.T) {
	t.Parallel()

	metaTime := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	timeTagTime := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	fallbackTime := time.Date(2022, 12, 21, 10, 0, 0, 0, time.UTC)

	dates := stubDates(map[string]time.Time{
		"2024-03-15T10:30:00Z":  metaTime,
		"2023-01-02":            timeTagTime,
		"Dec 21, 2022 10:00 AM": fallbackTime,
	})

	t.Run("meta pubdate wins over structural fallback", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="pubdate" content="2024-03-15T10:30:00Z"></head>
<body><div class="post-meta">Published: Dec 21, 2022 10:00 AM</div></body></html>`

		ext, err := goquery.NewExtractor(dates).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, metaTime, ext.PublishTime)
	})

	t.Run("honors meta priority order", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta itemprop="datePublished" content="2023-01-02">
<meta property="article:published_time" content="2024-03-15T10:30:00Z">
</head><body></body></html>`

		ext, err := goquery.NewExtractor(dates).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, metaTime, ext.PublishTime)
	})

	t.Run("skips unparseable meta and uses time element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="date" content="yesterday-ish"></head>
<body><time datetime="2023-01-02">Jan 2</time></body></html>`

		ext, err := goquery.NewExtractor(dates).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, timeTagTime, ext.PublishTime)
	})

	t.Run("uses structural fallback with published marker", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<span class="byline">Published: Nov 1, 2020</span>
<div class="article-info"><span>Published:</span> <span>Dec 21, 2022 10:00 AM</span></div>
</body></html>`

		ext, err := goquery.NewExtractor(dates).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, fallbackTime, ext.PublishTime)
	})

	t.Run("ignores blocks without published marker", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="date">Dec 21, 2022 10:00 AM</div></body></html>`

		ext, err := goquery.NewExtractor(dates).Extract(html)

		require.NoError(t, err)
		assert.True(t, ext.PublishTime.IsZero())
	})

	t.Run("returns zero time without candidates", func(t *testing.T) {
		t.Parallel()

		ext, err := goquery.NewExtractor(dates).Extract(`<html><body><p>text</p></body></html>`)

		require.NoError(t, err)
		assert.True(t, ext.PublishTime.IsZero())
	})
}

func TestExtractor_Extract_WithDateParser(t *testing.T) {
	t.Parallel()

	html := `<html><head><meta property="article:published_time" content="2024-03-15T10:30:00+08:00"></head></html>`

	ext, err := goquery.NewExtractor(dateparse.NewParser()).Extract(html)

	require.NoError(t, err)
	assert.True(t, time.Date(2024, 3, 15, 2, 30, 0, 0, time.UTC).Equal(ext.PublishTime))
}

func TestExtractor_Extract_FailureReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want newsfetch.FailureReason
	}{
		{
			name: "empty html",
			html: "",
			want: newsfetch.ReasonNoResponse,
		},
		{
			name: "captcha page",
			html: `<html><body><p>` + longParagraph + `</p><div class="g-recaptcha"></div></body></html>`,
			want: newsfetch.ReasonBlocked,
		},
		{
			name: "not found title",
			html: `<html><head><title>Page Not Found</title></head><body><p>` + longParagraph + `</p></body></html>`,
			want: newsfetch.ReasonNotFound,
		},
		{
			name: "short content",
			html: `<html><body><p>Too short.</p></body></html>`,
			want: newsfetch.ReasonShortContent,
		},
		{
			name: "javascript wall",
			html: `<html><body><p>` + longParagraph + `Please enable JavaScript to continue.</p></body></html>`,
			want: newsfetch.ReasonJSRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ext, err := goquery.NewExtractor(stubDates(nil)).Extract(tt.html)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ext.FailedReason)
		})
	}
}
