package output

import "context"

// ArticleSink persists the final article. Write replaces any previous content.
type ArticleSink interface {
	Write(ctx context.Context, content string) (path string, err error)
	Path() string
}
