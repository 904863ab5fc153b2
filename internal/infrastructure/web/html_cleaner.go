package web

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type CleanConfig struct {
	TagsToRemove     []string
	AttrsToRemove    []string
	AttrPrefixes     []string
	MaxOutputSize    int
	CustomAttrFilter func(attr html.Attribute) bool
}

// DefaultCleanConfig strips everything that is not article content.
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe", "canvas",
		"link", "meta", "head", "title",
		"nav", "header", "footer", "aside", "form", "button",
	},
	AttrsToRemove: []string{
		"style", "class", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	AttrPrefixes:  []string{"data-", "aria-", "on"},
	MaxOutputSize: 400_000,
}

// CleanHTML parses rawHTML and returns the cleaned <body> subtree. Output
// longer than MaxOutputSize is cut before any incomplete tag.
func CleanHTML(rawHTML string, cfg *CleanConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return "", fmt.Errorf("no <body> in document")
	}

	if len(cfg.TagsToRemove) > 0 {
		body.Find(strings.Join(cfg.TagsToRemove, ", ")).Remove()
	}

	elements := body.Find("*").AddSelection(body)
	elements.Contents().FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Get(0).Type == html.CommentNode
	}).Remove()
	elements.Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		kept := node.Attr[:0]
		for _, attr := range node.Attr {
			if !cfg.dropsAttr(attr) {
				kept = append(kept, attr)
			}
		}
		node.Attr = kept
	})

	result, err := goquery.OuterHtml(body)
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	if cfg.MaxOutputSize > 0 && len(result) > cfg.MaxOutputSize {
		result = cutHTML(result, cfg.MaxOutputSize)
	}
	return result, nil
}

func (c *CleanConfig) dropsAttr(attr html.Attribute) bool {
	for _, name := range c.AttrsToRemove {
		if attr.Key == name {
			return true
		}
	}
	for _, prefix := range c.AttrPrefixes {
		if strings.HasPrefix(attr.Key, prefix) {
			return true
		}
	}
	return c.CustomAttrFilter != nil && c.CustomAttrFilter(attr)
}

// cutHTML shortens s to at most limit bytes without splitting a rune or
// leaving a half-written tag at the end.
func cutHTML(s string, limit int) string {
	s = truncateUTF8(s, limit)
	if open := strings.LastIndexByte(s, '<'); open > strings.LastIndexByte(s, '>') {
		s = s[:open]
	}
	return s
}

// truncateUTF8 returns the longest prefix of s that fits in limit bytes and
// ends on a rune boundary.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
