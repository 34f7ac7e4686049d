package main

import (
	"context"
	"os"
	"time"

	"autospese/internal/backend"
	"autospese/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pipeline, err := backend.CreateExporter(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to build export pipeline", "error", err, "source", cfg.RowSource)
		os.Exit(1)
	}
	defer pipeline.Close()

	snap, err := pipeline.Exporter.Run(ctx)
	if err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Export complete",
		"path", cfg.SnapshotPath,
		"rows", len(snap.Records),
		"updated_at", snap.UpdatedAt.Format(time.RFC3339))
}
