package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"autospese/internal/backend"
	"autospese/internal/cli"
	"autospese/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting autospese-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, err := backend.CreateExporter(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to build export pipeline", "error", err, "source", cfg.RowSource)
		os.Exit(1)
	}
	defer pipeline.Close()

	w := worker.NewExportWorker(pipeline.Exporter, cfg.ExportInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})

	logger.Info("Export worker running", "interval", cfg.ExportInterval.String(), "source", cfg.RowSource)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
