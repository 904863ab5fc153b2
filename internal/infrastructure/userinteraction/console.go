package userinteraction

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"policy-crew/internal/application/port/output"
	"policy-crew/internal/domain/entity"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

const DefaultTopic = "Public interest safeguards for generative AI systems"

var _ output.UserInteractionPort = (*Console)(nil)

var separator = strings.Repeat("=", 50)

type Options struct {
	// Verbose prints iterations, tool calls and intermediate reasoning.
	Verbose bool
	// RenderMarkdown previews the final article with glamour.
	RenderMarkdown bool
	WordWrap       int
}

type Console struct {
	reader *bufio.Reader
	out    io.Writer
	opts   Options
}

func NewConsole(in io.Reader, out io.Writer, opts Options) *Console {
	if opts.WordWrap <= 0 {
		opts.WordWrap = 100
	}
	return &Console{
		reader: bufio.NewReader(in),
		out:    out,
		opts:   opts,
	}
}

func (c *Console) ShowIntro() {
	color.New(color.Bold).Fprintln(c.out, "Welcome")
	fmt.Fprintln(c.out, separator)
}

func (c *Console) ShowConfigWarnings(missingRequired []string, searchEnabled bool) {
	yellow := color.New(color.FgYellow)
	if len(missingRequired) > 0 {
		yellow.Fprintln(c.out, "Warning: the following environment variables are not set:")
		for _, key := range missingRequired {
			yellow.Fprintf(c.out, " - %s\n", key)
		}
		yellow.Fprintln(c.out, "Set the required keys before running the crew to avoid runtime errors.")
	}
	if !searchEnabled {
		color.New(color.Faint).Fprintln(c.out,
			"Note: SERPER_API_KEY is not configured. Web search will be skipped, but the crew can still operate with available context.")
	}
}

// AskTopic reads one line. An empty answer, including end of input, selects
// DefaultTopic. Cancelling ctx abandons a pending read.
func (c *Console) AskTopic(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(c.out, "Enter a topic to explore: ")

	type line struct {
		text string
		err  error
	}
	read := make(chan line, 1)
	go func() {
		text, err := c.reader.ReadString('\n')
		read <- line{text, err}
	}()

	var answer string
	var err error
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case l := <-read:
		answer, err = l.text, l.err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}

	topic := strings.TrimSpace(answer)
	if topic == "" {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
		}
		topic = DefaultTopic
		fmt.Fprintf(c.out, "No topic provided. Using default: %s\n", topic)
	}

	color.New(color.FgCyan, color.Bold).Fprintf(c.out, "\nTopic: %s\n", topic)
	fmt.Fprintln(c.out, separator)
	return topic, nil
}

func (c *Console) ShowStage(ctx context.Context, message string) {
	fmt.Fprintf(c.out, "\n%s\n", message)
}

func (c *Console) ShowTaskStart(ctx context.Context, task entity.TaskName, agentRole string) {
	if !c.opts.Verbose {
		return
	}
	magenta := color.New(color.FgMagenta, color.Bold)
	magenta.Fprintf(c.out, "\n📋 Task: %s\n", task)
	color.New(color.Faint).Fprintf(c.out, "   Agent: %s\n", agentRole)
}

func (c *Console) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	if !c.opts.Verbose {
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintf(c.out, "\n━━━ Iteration %d/%d ━━━\n", iteration, maxIterations)
}

func (c *Console) ShowThinking(ctx context.Context, content string) {
	if !c.opts.Verbose || content == "" {
		return
	}
	color.New(color.FgBlue).Fprint(c.out, "\n💭 Thinking: ")
	color.New(color.Faint).Fprintln(c.out, truncate(content, 500))
}

func (c *Console) ShowToolStart(ctx context.Context, toolName, arguments string) {
	if !c.opts.Verbose {
		return
	}
	icon, name := getToolDisplay(toolName)
	color.New(color.FgYellow, color.Bold).Fprintf(c.out, "\n%s %s\n", icon, name)

	if summary := formatToolArguments(toolName, arguments); summary != "" {
		color.New(color.Faint).Fprintf(c.out, "   %s\n", summary)
	}
}

func (c *Console) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if !c.opts.Verbose {
		return
	}
	if isError {
		color.New(color.FgRed).Fprint(c.out, "❌ ")
		color.New(color.Faint).Fprintln(c.out, truncate(result, 300))
		return
	}
	color.New(color.FgGreen).Fprintf(c.out, "✓ %s\n", formatToolResult(toolName, result))
}

func (c *Console) ShowFailure(ctx context.Context, reason string) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintln(c.out, "\nCrew execution did not complete successfully.")
	fmt.Fprintf(c.out, "Reason: %s\n", reason)
	fmt.Fprintln(c.out, "Verify API credentials and network access, then re-run the script.")
}

func (c *Console) ShowSuccess(ctx context.Context, result *entity.RunResult) {
	color.New(color.FgGreen, color.Bold).Fprintln(c.out, "\nCrew execution completed successfully.")
	fmt.Fprintln(c.out, separator)
	fmt.Fprint(c.out, "Final Output:\n\n")
	fmt.Fprintln(c.out, c.renderMarkdown(result.Output))

	fmt.Fprintf(c.out, "\nArticle saved to '%s'.\n", result.OutputPath)
	fmt.Fprintf(c.out, "Article length: %d characters\n", utf8.RuneCountInString(result.Output))
}

func (c *Console) renderMarkdown(content string) string {
	if !c.opts.RenderMarkdown {
		return content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(c.opts.WordWrap),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func getToolDisplay(toolName string) (string, string) {
	displays := map[string][2]string{
		entity.ToolWebSearch.String(): {"🔎", "Web search"},
		entity.ToolReadPage.String():  {"🌐", "Read page"},
	}

	if display, ok := displays[toolName]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch entity.ToolName(toolName) {
	case entity.ToolWebSearch:
		if query, ok := args["query"].(string); ok {
			return fmt.Sprintf("Query: %s", truncate(query, 80))
		}

	case entity.ToolReadPage:
		if url, ok := args["url"].(string); ok {
			return fmt.Sprintf("URL: %s", truncate(url, 100))
		}
	}

	return ""
}

func formatToolResult(toolName, result string) string {
	switch entity.ToolName(toolName) {
	case entity.ToolWebSearch:
		hits := 0
		for _, line := range strings.Split(result, "\n") {
			if len(line) > 0 && line[0] >= '0' && line[0] <= '9' {
				hits++
			}
		}
		if hits == 0 {
			return truncate(result, 100)
		}
		return fmt.Sprintf("Results: %d", hits)

	case entity.ToolReadPage:
		lines := strings.SplitN(result, "\n", 3)
		if len(lines) >= 2 && strings.HasPrefix(lines[1], "Title: ") {
			return fmt.Sprintf("%s (%d bytes)", strings.TrimPrefix(lines[1], "Title: "), len(result))
		}
		return fmt.Sprintf("Read %d bytes", len(result))
	}

	return truncate(result, 100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
