package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"policy-crew/internal/application/port/output"
	"policy-crew/internal/domain/entity"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var _ output.PageReaderPort = (*Reader)(nil)

type ReaderConfig struct {
	Timeout     time.Duration
	MaxBodySize int64
	MaxMarkdown int
	UserAgent   string
	HTTPClient  *http.Client
}

func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Timeout:     30 * time.Second,
		MaxBodySize: 5 * 1024 * 1024,
		MaxMarkdown: 20_000,
		UserAgent:   "policy-crew/1.0 (+research assistant)",
	}
}

// Reader downloads a web page and turns its main content into Markdown.
type Reader struct {
	cfg       ReaderConfig
	client    *http.Client
	converter *md.Converter
}

func NewReader(cfg ReaderConfig) *Reader {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Reader{
		cfg:       cfg,
		client:    client,
		converter: md.NewConverter("", true, nil),
	}
}

func (r *Reader) Read(ctx context.Context, rawURL string) (*entity.WebPage, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url has no host")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: %s", u, resp.Status)
	}

	body := io.Reader(resp.Body)
	if r.cfg.MaxBodySize > 0 {
		body = io.LimitReader(resp.Body, r.cfg.MaxBodySize)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}

	page := &entity.WebPage{URL: resp.Request.URL.String()}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch {
	case mediaType == "text/plain":
		page.Markdown = string(raw)
	case mediaType == "" || strings.Contains(mediaType, "html"):
		if err := r.convert(string(raw), page); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported content type %q", mediaType)
	}

	page.Markdown = strings.TrimSpace(page.Markdown)
	if r.cfg.MaxMarkdown > 0 && len(page.Markdown) > r.cfg.MaxMarkdown {
		page.Markdown = truncateUTF8(page.Markdown, r.cfg.MaxMarkdown)
		page.Truncated = true
	}
	return page, nil
}

func (r *Reader) convert(rawHTML string, page *entity.WebPage) error {
	original, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	page.Title = strings.TrimSpace(original.Find("title").First().Text())

	cleaned, err := CleanHTML(rawHTML, nil)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned))
	if err != nil {
		return fmt.Errorf("parse cleaned html: %w", err)
	}

	content := mainContent(doc)
	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return fmt.Errorf("render content: %w", err)
	}

	markdown, err := r.converter.ConvertString(fragment)
	if err != nil {
		return fmt.Errorf("convert to markdown: %w", err)
	}
	page.Markdown = markdown
	return nil
}

func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range []string{"main", "article", "[role=main]", "#content"} {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 && strings.TrimSpace(sel.Text()) != "" {
			return sel
		}
	}
	return doc.Find("body").First()
}
