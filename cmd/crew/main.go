package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"policy-crew/internal/di"
	"policy-crew/internal/infrastructure/env"
	"policy-crew/internal/infrastructure/userinteraction"
)

func main() {
	os.Exit(run())
}

func run() int {
	envService := env.NewEnvService()
	cfg := env.LoadConfig(envService)

	console := userinteraction.NewConsole(os.Stdin, os.Stdout, userinteraction.Options{
		Verbose:        cfg.Verbose,
		RenderMarkdown: cfg.RenderMarkdown,
	})

	console.ShowIntro()
	console.ShowConfigWarnings(cfg.MissingRequired(), cfg.SearchEnabled())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topic, err := console.AskTopic(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read topic: %v\n", err)
		return 1
	}

	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	container, err := di.NewContainer(ctx, cfg, topic, console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Initialization failed: %v\n", err)
		return 1
	}
	defer container.Close()

	container.Logger.Info("Run started", "envFiles", envService.LoadedFiles(), "logPath", container.LogPath)

	result, err := container.Pipeline.Run(ctx, topic)
	if err != nil {
		container.Logger.Error("Run failed", "error", err, "state", string(result.State))
		console.ShowFailure(ctx, result.Reason)
		return 1
	}

	container.Logger.Info("Run completed", "outputPath", result.OutputPath, "outputLen", len(result.Output))
	console.ShowSuccess(ctx, result)
	return 0
}
