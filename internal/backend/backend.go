// Package backend assembles the export pipeline from configuration:
// row source, archive repository, optional AMQP publisher, and the
// export service on top of them.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"autospese/internal/amqp"
	"autospese/internal/config"
	"autospese/internal/core"
	"autospese/internal/services"
	ports "autospese/internal/sheets"
	gsheet "autospese/internal/sheets/google"
	"autospese/internal/sheets/memory"
	"autospese/internal/storage"
)

// Result holds a built pipeline. Close releases every resource the
// factory opened; it is safe to call when some components are nil.
type Result struct {
	Exporter *services.ExportService
	Source   ports.RowReader
	Archive  *storage.Repository
	AMQP     *amqp.Client
}

func (r *Result) Close() error {
	if r.Exporter != nil {
		return r.Exporter.Close()
	}
	var firstErr error
	if r.Archive != nil {
		if err := r.Archive.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.AMQP != nil {
		if err := r.AMQP.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CreateExporter builds the export pipeline for the configured row
// source. The archive and the AMQP publisher are optional: an empty
// SQLITE_DB_PATH or AMQP_URL simply leaves them out.
func CreateExporter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{}

	source, err := createSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	res.Source = source

	if cfg.SQLiteDBPath != "" {
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("open archive: %w", err)
		}
		res.Archive = repo
		logger.Info("Export archive enabled", "path", cfg.SQLiteDBPath)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("connect amqp: %w", err)
		}
		res.AMQP = client
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange)
	}

	opts := core.Options{BlankCommentMeansFuel: cfg.BlankCommentMeansFuel}
	res.Exporter = services.NewExportService(source, res.Archive, res.AMQP, cfg.SnapshotPath, opts)
	return res, nil
}

func createSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.RowReader, error) {
	switch cfg.RowSource {
	case "sheets":
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize sheets source: %w", err)
		}
		logger.Info("Using Google Sheets row source", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return cli, nil
	case "memory", "":
		store := memory.NewFromFile(cfg.SnapshotPath)
		logger.Info("Using memory row source", "seed", cfg.SnapshotPath)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown row source %q (want memory or sheets)", cfg.RowSource)
	}
}
