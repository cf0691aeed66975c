package trafilatura_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/newsfetch"
	"github.com/fwojciec/newsfetch/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements newsfetch.Extractor at compile time.
var _ newsfetch.Extractor = (*trafilatura.Extractor)(nil)

func paragraphs(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("<p>The city council voted on Tuesday to approve the long debated harbor expansion, ending months of public hearings and negotiation with port operators.</p>\n")
	}
	return b.String()
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("empty input is no response", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("")

		require.NoError(t, err)
		assert.Equal(t, newsfetch.ReasonNoResponse, result.FailedReason)
	})

	t.Run("extracts title, author and main text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Harbor Expansion Approved - City News</title>
<meta property="og:title" content="Harbor Expansion Approved">
<meta name="author" content="Jane Doe">
</head>
<body>
<nav class="main-nav"><ul><li><a href="/">Home</a></li><li><a href="/about">About</a></li></ul></nav>
<article>
<h1>Harbor Expansion Approved</h1>
` + paragraphs(5) + `
</article>
<footer><p>Copyright 2024 Example Corp</p></footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Harbor Expansion Approved", result.Title)
		assert.Equal(t, "Jane Doe", result.Author)
		assert.Contains(t, result.Body, "approve the long debated harbor expansion")
		assert.NotContains(t, result.Body, "Copyright 2024 Example Corp")
		assert.Equal(t, newsfetch.ReasonOK, result.FailedReason)
	})
}
