package output

import (
	"context"

	"policy-crew/internal/domain/entity"
)

type UserInteractionPort interface {
	ShowIntro()
	ShowConfigWarnings(missingRequired []string, searchEnabled bool)
	AskTopic(ctx context.Context) (string, error)

	ShowStage(ctx context.Context, message string)
	ShowTaskStart(ctx context.Context, task entity.TaskName, agentRole string)
	ShowIteration(ctx context.Context, iteration, maxIterations int)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
	ShowThinking(ctx context.Context, content string)

	ShowFailure(ctx context.Context, reason string)
	ShowSuccess(ctx context.Context, result *entity.RunResult)
}
