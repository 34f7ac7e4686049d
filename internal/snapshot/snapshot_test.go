package snapshot

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autospese/internal/core"
)

func TestDecodeObjectShape(t *testing.T) {
	in := `{
		"updated_at": "2024-01-20T06:30:00Z",
		"records": [
			{"date": "15 Jan", "comment": "fuel", "Price": "1,000"},
			{"date": "20 Jan", "type": "service", "Amount": 350}
		]
	}`
	snap, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(snap.Records))
	}
	want := time.Date(2024, 1, 20, 6, 30, 0, 0, time.UTC)
	if !snap.UpdatedAt.Equal(want) {
		t.Fatalf("updated_at: got %v", snap.UpdatedAt)
	}
}

func TestDecodeBareArray(t *testing.T) {
	snap, err := Decode(strings.NewReader(`[{"date": "15 Jan"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Records) != 1 || !snap.UpdatedAt.IsZero() {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestDecodeBadShapeIsFatal(t *testing.T) {
	cases := []string{
		`{"records": "not a list"}`,
		`{"records": 42}`,
		`{"records": [1, 2, 3]}`, // elements are not row objects
		`"just a string"`,
		`{}`,
	}
	for _, in := range cases {
		if _, err := Decode(strings.NewReader(in)); !errors.Is(err, core.ErrBadShape) {
			t.Fatalf("%s: expected ErrBadShape, got %v", in, err)
		}
	}
}

func TestDecodeBadTimestampIsNotFatal(t *testing.T) {
	snap, err := Decode(strings.NewReader(`{"updated_at": "yesterday", "records": [{"a": 1}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !snap.UpdatedAt.IsZero() {
		t.Fatalf("expected zero time, got %v", snap.UpdatedAt)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "snapshot.json")
	in := Snapshot{
		UpdatedAt: time.Date(2024, 1, 20, 6, 30, 0, 0, time.UTC),
		Records: []core.RawRecord{
			{"date": "15 Jan 2024", "comment": "fuel", "Price": "1,000"},
		},
	}
	if err := Write(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Fatalf("updated_at changed: %v", out.UpdatedAt)
	}
	if len(out.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out.Records))
	}
	if out.Records[0]["comment"] != "fuel" {
		t.Fatalf("unexpected record: %+v", out.Records[0])
	}
}
