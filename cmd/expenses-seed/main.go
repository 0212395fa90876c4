package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"expenses/internal/cli"
	applog "expenses/internal/log"
	"expenses/internal/seed"
)

// Overwrites the configured store with random expenses. EXPENSES_SEED_ROWS
// and EXPENSES_SEED_RANDOM override the row count and the random seed.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelInfo, os.Stdout)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.ApplyLogLevel(cfg, os.Stdout)

	ctx, stop := cli.SignalContext()
	defer stop()

	rows := envInt("EXPENSES_SEED_ROWS", seed.DefaultRows)
	randomSeed := uint64(envInt("EXPENSES_SEED_RANDOM", int(time.Now().UnixNano())))

	svc := cli.InitService(ctx, logger, cfg)
	table := seed.Generate(seed.NewRand(randomSeed), rows, seed.DefaultFrom, seed.DefaultTo, cfg.Categories)
	if err := svc.Replace(ctx, table); err != nil {
		logger.Error("Failed to write dummy data", "error", err, "store", svc.StorePath())
		os.Exit(1)
	}
	logger.Info("Dummy data generated",
		applog.FieldComponent, applog.ComponentSeed,
		applog.FieldStore, svc.StorePath(),
		applog.FieldRecords, len(table))
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
