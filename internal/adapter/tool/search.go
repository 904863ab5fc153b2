package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"policy-crew/internal/application/port/output"
	"policy-crew/internal/domain/entity"
)

var _ output.ToolPort = (*WebSearchTool)(nil)

type WebSearchTool struct {
	search output.SearchPort
	logger output.LoggerPort
}

func NewWebSearchTool(search output.SearchPort, logger output.LoggerPort) *WebSearchTool {
	return &WebSearchTool{search: search, logger: logger}
}

func (t *WebSearchTool) Name() entity.ToolName { return entity.ToolWebSearch }
func (t *WebSearchTool) Description() string {
	return "Search the web with Google and return ranked results with titles, links and snippets. Use it to find recent developments, case studies, policy documents and credible sources. Prefer specific queries; follow up with read_page when a result looks worth reading in full."
}
func (t *WebSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Search query",
			},
			"num": map[string]interface{}{
				"type":        "integer",
				"description": "Number of results to return (default 10)",
			},
		},
		"required": []string{"query"},
	}
}

func (t *WebSearchTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Query string `json:"query"`
		Num   int    `json:"num"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", err
	}

	resp, err := t.search.Search(ctx, entity.SearchQuery{Query: input.Query, Num: input.Num})
	if err != nil {
		return "", err
	}

	if t.logger != nil {
		t.logger.Debug("web search completed", "query", resp.Query, "hits", len(resp.Hits))
	}

	return formatSearchResponse(resp), nil
}

func formatSearchResponse(resp *entity.SearchResponse) string {
	if resp.Answer == "" && resp.KnowledgeGraph == "" && len(resp.Hits) == 0 {
		return fmt.Sprintf("No results found for %q", resp.Query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n", resp.Query)
	if resp.Answer != "" {
		fmt.Fprintf(&b, "\nAnswer: %s\n", resp.Answer)
	}
	if resp.KnowledgeGraph != "" {
		fmt.Fprintf(&b, "\nKnowledge graph: %s\n", resp.KnowledgeGraph)
	}
	for _, hit := range resp.Hits {
		fmt.Fprintf(&b, "\n%d. %s\n   %s\n", hit.Position, hit.Title, hit.Link)
		if hit.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", hit.Snippet)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
