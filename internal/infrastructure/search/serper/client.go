package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"policy-crew/internal/application/port/output"
	"policy-crew/internal/domain/entity"
)

const (
	DefaultBaseURL = "https://google.serper.dev"
	DefaultResults = 10
	maxResults     = 50
)

var _ output.SearchPort = (*Client)(nil)

type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     output.LoggerPort
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// Client talks to the Serper Google Search API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  output.LoggerPort
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    httpClient,
		logger:  cfg.Logger,
	}
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type searchResponse struct {
	AnswerBox *struct {
		Title   string `json:"title"`
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"knowledgeGraph"`
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Position int    `json:"position"`
	} `json:"organic"`
}

// Search runs one query. Transport, authentication and decoding failures are
// returned as *entity.ExternalCallError.
func (c *Client) Search(ctx context.Context, query entity.SearchQuery) (*entity.SearchResponse, error) {
	q := strings.TrimSpace(query.Query)
	if q == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	num := query.Num
	if num <= 0 {
		num = DefaultResults
	}
	if num > maxResults {
		num = maxResults
	}

	body, err := json.Marshal(searchRequest{Q: q, Num: num})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, external(fmt.Errorf("search request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, external(fmt.Errorf("search request failed: %s: %s", resp.Status, strings.TrimSpace(string(excerpt))))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, external(fmt.Errorf("decode search response: %w", err))
	}

	result := &entity.SearchResponse{Query: q}
	if ab := decoded.AnswerBox; ab != nil {
		result.Answer = firstNonEmpty(ab.Answer, ab.Snippet, ab.Title)
	}
	if kg := decoded.KnowledgeGraph; kg != nil && kg.Title != "" {
		result.KnowledgeGraph = kg.Title
		if kg.Type != "" {
			result.KnowledgeGraph += " (" + kg.Type + ")"
		}
		if kg.Description != "" {
			result.KnowledgeGraph += ": " + kg.Description
		}
	}
	for i, o := range decoded.Organic {
		if len(result.Hits) >= num {
			break
		}
		pos := o.Position
		if pos == 0 {
			pos = i + 1
		}
		result.Hits = append(result.Hits, entity.SearchHit{
			Position: pos,
			Title:    o.Title,
			Link:     o.Link,
			Snippet:  o.Snippet,
		})
	}

	if c.logger != nil {
		c.logger.Debug("Search completed",
			"query", q,
			"hits", len(result.Hits),
			"durationMs", time.Since(start).Milliseconds(),
		)
	}

	return result, nil
}

func external(err error) error {
	return &entity.ExternalCallError{Service: "search API", Err: err}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
