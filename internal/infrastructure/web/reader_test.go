package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>  Algorithmic Accountability  </title><script>track()</script></head>
<body>
  <nav><a href="/">Home</a></nav>
  <main>
    <h1>Algorithmic Accountability</h1>
    <p>Agencies should publish <strong>impact assessments</strong>.</p>
    <ul><li>Transparency</li><li>Redress</li></ul>
  </main>
  <footer>Contact us</footer>
</body>
</html>`

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestReader_ConvertsMainContentToMarkdown(t *testing.T) {
	server := serve(t, "text/html; charset=utf-8", samplePage)

	page, err := NewReader(DefaultReaderConfig()).Read(context.Background(), server.URL+"/report")
	require.NoError(t, err)

	assert.Equal(t, "Algorithmic Accountability", page.Title)
	assert.Equal(t, server.URL+"/report", page.URL)
	assert.Contains(t, page.Markdown, "# Algorithmic Accountability")
	assert.Contains(t, page.Markdown, "**impact assessments**")
	assert.Contains(t, page.Markdown, "Transparency")
	assert.NotContains(t, page.Markdown, "Home")
	assert.NotContains(t, page.Markdown, "Contact us")
	assert.NotContains(t, page.Markdown, "track()")
	assert.False(t, page.Truncated)
}

func TestReader_FallsBackToBody(t *testing.T) {
	server := serve(t, "text/html", `<html><body><p>Plain body paragraph</p></body></html>`)

	page, err := NewReader(DefaultReaderConfig()).Read(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain body paragraph", page.Markdown)
}

func TestReader_PlainTextPassesThrough(t *testing.T) {
	server := serve(t, "text/plain", "  just text  ")

	page, err := NewReader(DefaultReaderConfig()).Read(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "just text", page.Markdown)
}

func TestReader_TruncatesLongPages(t *testing.T) {
	server := serve(t, "text/plain", strings.Repeat("x", 100))

	cfg := DefaultReaderConfig()
	cfg.MaxMarkdown = 10
	page, err := NewReader(cfg).Read(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Len(t, page.Markdown, 10)
	assert.True(t, page.Truncated)
}

func TestReader_TruncatesOnRuneBoundary(t *testing.T) {
	server := serve(t, "text/plain", strings.Repeat("ü", 50))

	cfg := DefaultReaderConfig()
	cfg.MaxMarkdown = 11
	page, err := NewReader(cfg).Read(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("ü", 5), page.Markdown)
	assert.True(t, utf8.ValidString(page.Markdown))
	assert.True(t, page.Truncated)
}

func TestReader_Rejects(t *testing.T) {
	binary := serve(t, "application/pdf", "%PDF-1.7")
	missing := httptest.NewServer(http.NotFoundHandler())
	defer missing.Close()

	reader := NewReader(DefaultReaderConfig())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"scheme", "ftp://example.com/file", "unsupported url scheme"},
		{"no host", "https://", "no host"},
		{"content type", binary.URL, "unsupported content type"},
		{"status", missing.URL, "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.Read(context.Background(), tt.url)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
