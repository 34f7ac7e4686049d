// Package worker runs the snapshot exporter on a fixed interval.
package worker

import (
	"context"
	"time"

	"autospese/internal/log"
	"autospese/internal/services"
)

// ExportWorker re-runs the export service periodically so the snapshot
// file the dashboard reads never goes stale.
type ExportWorker struct {
	exporter *services.ExportService
	interval time.Duration
	logger   *log.Logger
}

func NewExportWorker(exporter *services.ExportService, interval time.Duration) *ExportWorker {
	return &ExportWorker{
		exporter: exporter,
		interval: interval,
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker),
	}
}

// Run exports once immediately, then on every tick until the context is
// cancelled. A failed export is logged and retried on the next tick; the
// previous snapshot file stays in place meanwhile.
func (w *ExportWorker) Run(ctx context.Context) error {
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Export worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ExportWorker) runOnce(ctx context.Context) {
	start := time.Now()
	snap, err := w.exporter.Run(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Scheduled export failed", log.FieldError, err)
		return
	}
	w.logger.InfoContext(ctx, "Scheduled export completed",
		log.FieldOperation, log.OpExport,
		log.FieldRecordCount, len(snap.Records),
		log.FieldDuration, time.Since(start).Milliseconds())
}
