package output

import (
	"policy-crew/internal/domain/entity"
)

type ToolPort = entity.Tool

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
