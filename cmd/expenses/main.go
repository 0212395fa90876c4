package main

import (
	"context"
	"log/slog"
	"os"

	"expenses/internal/chart"
	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/prompt"
)

func main() {
	cli.LoadEnvFile()

	// Prompts share the terminal with logs, so stay quiet unless asked.
	level := slog.LevelWarn
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := config.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	logger := cli.SetupLogger(level, os.Stderr)

	cfg := cli.LoadAndValidateConfig(logger)
	ctx := context.Background()
	svc := cli.InitService(ctx, logger, cfg)
	format, err := chart.ParseFormat(cfg.ChartFormat)
	if err != nil {
		logger.Error("Invalid chart format", "error", err)
		os.Exit(1)
	}

	shell := prompt.New(svc, os.Stdin, os.Stdout, prompt.Options{
		ChartDir:    cfg.ChartDir(),
		ChartFormat: format,
		Logger:      logger,
	})
	if err := shell.Run(ctx); err != nil {
		logger.Error("Expense shell stopped", "error", err)
		os.Exit(1)
	}
}
