package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"policy-crew/internal/application/port/input"
	"policy-crew/internal/application/port/output"
	"policy-crew/internal/application/service"
	"policy-crew/internal/domain/entity"
	"policy-crew/internal/infrastructure/prompts"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	DefaultMaxIterations = 15
	maxObservationLen    = 20000
)

const summaryPrompt = `Maximum iterations reached. You MUST provide your FINAL ANSWER now.

Use everything gathered so far and return the complete content that satisfies the expected criteria.
Do NOT call any tools. Provide text response ONLY.`

type Config struct {
	Temperature   float32
	MaxIterations int
}

type UseCase struct {
	llm             output.LLMPort
	logger          output.LoggerPort
	userInteraction output.UserInteractionPort
	cfg             Config
}

func New(
	llm output.LLMPort,
	logger output.LoggerPort,
	userInteraction output.UserInteractionPort,
	cfg Config,
) *UseCase {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &UseCase{
		llm:             llm,
		logger:          logger,
		userInteraction: userInteraction,
		cfg:             cfg,
	}
}

// Execute runs one task with the agent assigned to it. Outputs of the tasks it
// depends on are passed in contextOutputs and appended to the task prompt.
func (uc *UseCase) Execute(ctx context.Context, task *entity.TaskSpec, contextOutputs []entity.TaskOutput) (*entity.TaskOutput, error) {
	if task == nil || task.Agent == nil {
		return nil, fmt.Errorf("task and agent are required")
	}

	systemPrompt, err := prompts.GenerateSystemPrompt(task.Agent)
	if err != nil {
		return nil, fmt.Errorf("failed to build system prompt: %w", err)
	}
	taskPrompt, err := prompts.GenerateTaskPrompt(task, contextOutputs)
	if err != nil {
		return nil, fmt.Errorf("failed to build task prompt: %w", err)
	}

	log := uc.logger.WithFields(map[string]any{
		"task":  string(task.Name),
		"agent": task.Agent.Role,
	})
	log.Info("Task started", "tools", len(task.Agent.Tools), "contextOutputs", len(contextOutputs))
	uc.userInteraction.ShowTaskStart(ctx, task.Name, task.Agent.Role)

	tools := service.NewToolRegistry(task.Agent.Tools...)
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: systemPrompt},
		{Role: entity.RoleUser, Content: taskPrompt},
	}

	answer, iterations, err := uc.loop(ctx, log, tools, messages)
	if err != nil {
		return nil, err
	}

	log.Info("Task finished", "iterations", iterations, "outputLen", len(answer))
	return &entity.TaskOutput{
		Task:       task.Name,
		AgentRole:  task.Agent.Role,
		Raw:        strings.TrimSpace(answer),
		Iterations: iterations,
	}, nil
}

func (uc *UseCase) loop(
	ctx context.Context,
	log output.LoggerPort,
	tools output.ToolRegistry,
	messages []entity.Message,
) (string, int, error) {
	toolDefs := tools.Definitions()
	maxIterations := uc.cfg.MaxIterations

	for iter := 1; iter <= maxIterations; iter++ {
		uc.userInteraction.ShowIteration(ctx, iter, maxIterations)
		log.Debug("Starting iteration", "iteration", iter)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: uc.cfg.Temperature,
		})
		if err != nil {
			return "", iter, fmt.Errorf("llm request failed: %w", err)
		}

		if resp.Message.Content != "" && len(resp.Message.ToolCalls) > 0 {
			uc.userInteraction.ShowThinking(ctx, resp.Message.Content)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			return resp.Message.Content, iter, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			uc.userInteraction.ShowToolStart(ctx, tc.Name, tc.Arguments)

			observation, isError, err := uc.executeTool(ctx, log, tools, tc)
			if err != nil {
				return "", iter, err
			}

			uc.userInteraction.ShowToolResult(ctx, tc.Name, observation, isError)

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    observation,
			})
		}
	}

	log.Info("Max iterations reached, requesting final answer")
	messages = append(messages, entity.Message{
		Role:    entity.RoleUser,
		Content: summaryPrompt,
	})

	summaryResp, err := uc.llm.Chat(ctx, output.ChatRequest{
		Messages:    messages,
		Tools:       nil,
		Temperature: uc.cfg.Temperature,
	})
	if err != nil {
		return "", maxIterations, fmt.Errorf("summary iteration failed: %w", err)
	}

	return summaryResp.Message.Content, maxIterations, nil
}

// executeTool turns local tool failures into observations for the model.
// Failures of remote services are returned and end the task.
func (uc *UseCase) executeTool(
	ctx context.Context,
	log output.LoggerPort,
	tools output.ToolRegistry,
	tc entity.ToolCall,
) (string, bool, error) {
	tool, ok := tools.Get(entity.ToolName(tc.Name))
	if !ok {
		log.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name), true, nil
	}

	log.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		var callErr *entity.ExternalCallError
		if errors.As(err, &callErr) {
			log.Error("External call failed", "name", tc.Name, "error", err)
			return "", true, fmt.Errorf("tool %s: %w", tc.Name, err)
		}
		if ctx.Err() != nil {
			return "", true, ctx.Err()
		}
		log.Warn("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error(), true, nil
	}

	if len(result) > maxObservationLen {
		cut := maxObservationLen
		for cut > 0 && !utf8.RuneStart(result[cut]) {
			cut--
		}
		result = result[:cut] + "\n... (truncated)"
	}

	log.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result, false, nil
}
