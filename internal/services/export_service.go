package services

import (
	"context"
	"fmt"
	"time"

	"autospese/internal/amqp"
	"autospese/internal/core"
	"autospese/internal/log"
	"autospese/internal/sheets"
	"autospese/internal/snapshot"
	"autospese/internal/storage"
)

// ExportService regenerates the snapshot file from the spreadsheet
// source and surrounds it with the operational plumbing: archiving the
// export in SQLite and announcing it over AMQP. Archive and AMQP are
// both optional; the snapshot file is the one mandatory output.
type ExportService struct {
	source       sheets.RowReader
	archive      *storage.Repository
	amqpClient   *amqp.Client
	snapshotPath string
	opts         core.Options
	now          func() time.Time
	logger       *log.Logger
}

func NewExportService(source sheets.RowReader, archive *storage.Repository, amqpClient *amqp.Client, snapshotPath string, opts core.Options) *ExportService {
	return &ExportService{
		source:       source,
		archive:      archive,
		amqpClient:   amqpClient,
		snapshotPath: snapshotPath,
		opts:         opts,
		now:          time.Now,
		logger:       log.New(log.DefaultConfig()).WithComponent(log.ComponentExporter),
	}
}

// Run performs one export. The snapshot write must succeed; archive and
// publish failures are logged and absorbed so a broken side channel
// never blocks the dashboard's data.
func (s *ExportService) Run(ctx context.Context) (snapshot.Snapshot, error) {
	rows, err := s.source.ReadRows(ctx)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("read rows: %w", err)
	}

	snap := snapshot.Snapshot{UpdatedAt: s.now().UTC(), Records: rows}
	if err := snapshot.Write(s.snapshotPath, snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "Snapshot regenerated",
		log.FieldSnapshot, s.snapshotPath,
		log.FieldRecordCount, len(rows))

	opts := s.opts
	if opts.Year == 0 {
		opts.Year = s.now().Year()
	}
	entries := core.Normalize(rows, opts)

	if s.archive != nil {
		if _, err := s.archive.ArchiveExport(ctx, snap.UpdatedAt, entries); err != nil {
			s.logger.ErrorContext(ctx, "Failed to archive export",
				log.FieldOperation, log.OpArchive, log.FieldError, err)
		}
	}

	if err := s.publishUpdated(ctx, snap, len(entries)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish snapshot update",
			log.FieldOperation, log.OpPublish, log.FieldError, err)
	}

	return snap, nil
}

func (s *ExportService) publishUpdated(ctx context.Context, snap snapshot.Snapshot, recordCount int) error {
	if s.amqpClient == nil {
		s.logger.DebugContext(ctx, "AMQP client not available, skipping snapshot update message")
		return nil
	}
	return s.amqpClient.PublishSnapshotUpdated(ctx, s.snapshotPath, snap.UpdatedAt, recordCount)
}

// Close releases the side channels.
func (s *ExportService) Close() error {
	var errs []error

	if s.archive != nil {
		if err := s.archive.Close(); err != nil {
			errs = append(errs, fmt.Errorf("archive: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close export service: %v", errs)
	}
	return nil
}
