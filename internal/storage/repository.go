// Package storage archives each snapshot export in SQLite so the export
// history and its normalized records can be inspected later. The
// snapshot file stays the dashboard's contract; the archive is an audit
// trail beside it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"autospese/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// SnapshotRow is one archived export.
type SnapshotRow struct {
	ID          int64
	UpdatedAt   time.Time
	RecordCount int
	CreatedAt   time.Time
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ArchiveExport stores one export: the snapshot metadata plus the
// normalized records derived from it, in a single transaction.
func (r *Repository) ArchiveExport(ctx context.Context, updatedAt time.Time, entries []core.Expense) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (updated_at, record_count) VALUES (?, ?)`,
		updatedAt.UTC(), len(entries))
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses
			(snapshot_id, date_display, date_unix, category, description,
			 amount_cents, odometer, volume, rate, efficiency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare expense insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		var dateUnix int64
		if e.Date.Parsed {
			dateUnix = e.Date.Unix()
		}
		_, err := stmt.ExecContext(ctx,
			snapshotID, e.Date.Display(), dateUnix, e.Category, e.Description,
			e.Amount.Cents, e.Odometer, e.Volume, e.Rate, e.Efficiency)
		if err != nil {
			return 0, fmt.Errorf("insert expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit archive tx: %w", err)
	}

	slog.InfoContext(ctx, "Export archived",
		"snapshot_id", snapshotID,
		"record_count", len(entries))
	return snapshotID, nil
}

// LatestSnapshot returns the most recently archived export.
func (r *Repository) LatestSnapshot(ctx context.Context) (SnapshotRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, updated_at, record_count, created_at
		FROM snapshots ORDER BY id DESC LIMIT 1`)
	var s SnapshotRow
	if err := row.Scan(&s.ID, &s.UpdatedAt, &s.RecordCount, &s.CreatedAt); err != nil {
		return SnapshotRow{}, fmt.Errorf("latest snapshot: %w", err)
	}
	return s, nil
}

// ListSnapshots returns archived exports, newest first.
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]SnapshotRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, updated_at, record_count, created_at
		FROM snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var s SnapshotRow
		if err := rows.Scan(&s.ID, &s.UpdatedAt, &s.RecordCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ExpensesForSnapshot returns the normalized records archived with one
// export, newest first by parsed date.
func (r *Repository) ExpensesForSnapshot(ctx context.Context, snapshotID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date_display, date_unix, category, description,
		       amount_cents, odometer, volume, rate, efficiency
		FROM expenses WHERE snapshot_id = ?
		ORDER BY date_unix DESC, id ASC`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e           core.Expense
			dateDisplay string
			dateUnix    int64
		)
		err := rows.Scan(&dateDisplay, &dateUnix, &e.Category, &e.Description,
			&e.Amount.Cents, &e.Odometer, &e.Volume, &e.Rate, &e.Efficiency)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date = core.Date{Raw: dateDisplay}
		if dateUnix != 0 {
			e.Date = core.Date{Time: time.Unix(dateUnix, 0).UTC(), Raw: dateDisplay, Parsed: true}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
