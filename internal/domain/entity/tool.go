package entity

import "context"

type ToolName string

const (
	ToolWebSearch ToolName = "web_search"
	ToolReadPage  ToolName = "read_page"
)

func (t ToolName) String() string {
	return string(t)
}

// Tool is a capability an agent may invoke while working on a task.
type Tool interface {
	Name() ToolName
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, arguments string) (string, error)
}
