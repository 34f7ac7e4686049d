// Package memory provides an in-process row source for development and
// tests, optionally seeded from a snapshot-format JSON file.
package memory

import (
	"context"
	"sync"

	"autospese/internal/core"
	"autospese/internal/snapshot"
)

type Store struct {
	mu   sync.Mutex
	rows []core.RawRecord
}

func New(rows []core.RawRecord) *Store {
	return &Store{rows: rows}
}

// NewFromFile seeds the store from a snapshot-format JSON file. A
// missing or malformed file yields sample rows so a dev dashboard never
// starts empty.
func NewFromFile(path string) *Store {
	snap, err := snapshot.Load(path)
	if err != nil || len(snap.Records) == 0 {
		return New(sampleRows())
	}
	return New(snap.Records)
}

// ReadRows implements sheets.RowReader.
func (s *Store) ReadRows(_ context.Context) ([]core.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RawRecord, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Replace swaps the seeded rows, for tests.
func (s *Store) Replace(rows []core.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
}

func sampleRows() []core.RawRecord {
	return []core.RawRecord{
		{"date": "05 Jan 2024", "comment": "fuel", "Price": "1,000", "odometer reading": "10000", "volume in ltr": "10", "rate": "100"},
		{"date": "18 Jan 2024", "comment": "fuel", "Price": "1,200", "odometer reading": "10300", "volume in ltr": "12", "rate": "100"},
		{"date": "22 Jan 2024", "type": "Service", "Price": "2,500"},
		{"date": "01 Feb 2024", "category": "Insurance", "Amount": "6,800"},
	}
}
