// Package snapshot reads and writes the JSON snapshot file that carries
// raw spreadsheet rows from the exporter to the dashboard. The file is
// the single contract between the two sides: an object holding an
// ISO-8601 generation timestamp and the raw row list.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"autospese/internal/core"
)

// Snapshot is one regeneration of the raw data.
type Snapshot struct {
	UpdatedAt time.Time
	Records   []core.RawRecord
}

// fileShape is the on-disk layout. Records stays raw during the first
// pass so a malformed shape can be reported as the single fatal load
// error instead of a generic unmarshal failure.
type fileShape struct {
	UpdatedAt string          `json:"updated_at"`
	Records   json.RawMessage `json:"records"`
}

// Decode parses a snapshot. The only fatal condition is a top level that
// is not a list of row objects (core.ErrBadShape); a missing or
// unparseable timestamp degrades to the zero time.
func Decode(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var shape fileShape
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Bare-array snapshots from older exports are still accepted.
		shape.Records = trimmed
	} else if err := json.Unmarshal(data, &shape); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", core.ErrBadShape, err)
	}

	if len(shape.Records) == 0 {
		return Snapshot{}, fmt.Errorf("%w: missing records", core.ErrBadShape)
	}
	var records []core.RawRecord
	if err := json.Unmarshal(shape.Records, &records); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", core.ErrBadShape, err)
	}

	snap := Snapshot{Records: records}
	if shape.UpdatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, shape.UpdatedAt); err == nil {
			snap.UpdatedAt = ts
		}
	}
	return snap, nil
}

// Load reads a snapshot file from disk.
func Load(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Write regenerates the snapshot file atomically (temp file + rename) so
// a dashboard reading mid-export never sees a torn file.
func Write(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	shape := fileShape{UpdatedAt: snap.UpdatedAt.UTC().Format(time.RFC3339)}
	records, err := json.Marshal(snap.Records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	shape.Records = records

	data, err := json.MarshalIndent(shape, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
