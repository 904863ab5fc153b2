package file

import (
	"context"
	"fmt"
	"os"

	"policy-crew/internal/application/port/output"
)

const DefaultPath = "article.md"

var _ output.ArticleSink = (*Sink)(nil)

// Sink writes the article to a fixed path, replacing earlier runs' output.
type Sink struct {
	path   string
	logger output.LoggerPort
}

func NewSink(path string, logger output.LoggerPort) *Sink {
	if path == "" {
		path = DefaultPath
	}
	return &Sink{path: path, logger: logger}
}

func (s *Sink) Path() string { return s.path }

func (s *Sink) Write(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write article: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Article saved", "path", s.path, "bytes", len(content))
	}
	return s.path, nil
}
