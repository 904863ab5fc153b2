package di

import (
	"context"
	"fmt"

	"policy-crew/internal/adapter/tool"
	"policy-crew/internal/application/port/input"
	"policy-crew/internal/application/port/output"
	"policy-crew/internal/application/service"
	"policy-crew/internal/domain/entity"
	"policy-crew/internal/infrastructure/env"
	"policy-crew/internal/infrastructure/llm/openaiapi"
	"policy-crew/internal/infrastructure/logger"
	"policy-crew/internal/infrastructure/prompts"
	"policy-crew/internal/infrastructure/storage/file"
	"policy-crew/internal/infrastructure/web"
	"policy-crew/internal/usecase/crew"
	"policy-crew/internal/usecase/executor"
	"policy-crew/internal/usecase/pipeline"

	"github.com/google/uuid"
)

type Container struct {
	RunID    string
	LogPath  string
	Logger   output.LoggerPort
	Tools    output.ToolRegistry
	Pipeline input.PipelineRunner

	rootLogger *logger.LoggerAdapter
}

// NewContainer wires one run. Specs, tools and the log file are created
// fresh for every container.
func NewContainer(ctx context.Context, cfg env.Config, topic string, ui output.UserInteractionPort) (*Container, error) {
	rootLogger, err := logger.NewLoggerAdapter(logger.Config{
		Dir:      cfg.LogDir,
		TaskName: topic,
		Level:    cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	runID := uuid.NewString()
	log := rootLogger.WithFields(map[string]any{
		"run_id": runID,
		"topic":  topic,
	})
	log.Info("Run configured",
		"appEnv", cfg.AppEnv,
		"model", cfg.OpenAIModel,
		"searchEnabled", cfg.SearchEnabled(),
		"pageReaderEnabled", cfg.PageReaderEnabled,
	)

	llmCfg := openaiapi.DefaultConfig(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if cfg.OpenAIBaseURL != "" {
		llmCfg.BaseURL = cfg.OpenAIBaseURL
	}
	llmCfg.Logger = log
	llm := openaiapi.NewAdapter(llmCfg)

	researchTools := tool.NewSearchTools(tool.SearchConfig{APIKey: cfg.SerperAPIKey}, log)
	if cfg.PageReaderEnabled {
		reader := web.NewReader(web.DefaultReaderConfig())
		researchTools = append(researchTools, tool.NewReadPageTool(reader, log))
	}

	c := crew.New(crew.Config{
		Persona:       entity.NewPersonaContext(prompts.PersonaContext),
		ResearchTools: researchTools,
		OutputPath:    cfg.OutputPath,
	})

	exec := executor.New(llm, log, ui, executor.Config{
		Temperature:   cfg.Temperature,
		MaxIterations: executor.DefaultMaxIterations,
	})
	sink := file.NewSink(cfg.OutputPath, log)

	return &Container{
		RunID:      runID,
		LogPath:    rootLogger.Path(),
		Logger:     log,
		Tools:      service.NewToolRegistry(researchTools...),
		Pipeline:   pipeline.New(c, exec, sink, log, ui),
		rootLogger: rootLogger,
	}, nil
}

func (c *Container) Close() {
	if c.rootLogger != nil {
		c.rootLogger.Close()
	}
}
