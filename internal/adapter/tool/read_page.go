package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"policy-crew/internal/application/port/output"
	"policy-crew/internal/domain/entity"
)

var _ output.ToolPort = (*ReadPageTool)(nil)

type ReadPageTool struct {
	reader output.PageReaderPort
	logger output.LoggerPort
}

func NewReadPageTool(reader output.PageReaderPort, logger output.LoggerPort) *ReadPageTool {
	return &ReadPageTool{reader: reader, logger: logger}
}

func (t *ReadPageTool) Name() entity.ToolName { return entity.ToolReadPage }
func (t *ReadPageTool) Description() string {
	return "Download a web page and return its main content as Markdown. Navigation, scripts and footers are stripped. Use it on links found via web_search or cited in your context to verify facts and collect quotes."
}
func (t *ReadPageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute http(s) URL of the page",
			},
		},
		"required": []string{"url"},
	}
}

func (t *ReadPageTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", err
	}

	page, err := t.reader.Read(ctx, input.URL)
	if err != nil {
		return "", err
	}

	if t.logger != nil {
		t.logger.Debug("page read", "url", page.URL, "bytes", len(page.Markdown), "truncated", page.Truncated)
	}

	out := fmt.Sprintf("URL: %s\n", page.URL)
	if page.Title != "" {
		out += fmt.Sprintf("Title: %s\n", page.Title)
	}
	out += "\n" + page.Markdown
	if page.Truncated {
		out += "\n\n[content truncated]"
	}
	return out, nil
}
