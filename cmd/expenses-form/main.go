package main

import (
	"log/slog"
	"os"

	"expenses/internal/cli"
	apphttp "expenses/internal/http"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelInfo, os.Stdout)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.ApplyLogLevel(cfg, os.Stdout)

	ctx, stop := cli.SignalContext()
	defer stop()

	svc := cli.InitService(ctx, logger, cfg)
	if _, created, err := svc.Load(ctx); err != nil {
		logger.Error("Failed to open expense store", "error", err, "store", svc.StorePath())
		os.Exit(1)
	} else if created {
		logger.Info("Created new expense store", "store", svc.StorePath())
	}

	srv, err := apphttp.NewServer(cfg.FormAddr, svc, apphttp.Options{
		BackupSchedule: cfg.BackupSchedule,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("Failed to build form server", "error", err)
		os.Exit(1)
	}

	logger.Info("Open the expense form", "url", "http://"+cfg.FormAddr+"/")
	if err := srv.Run(ctx); err != nil {
		logger.Error("Form server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Form server stopped")
}
