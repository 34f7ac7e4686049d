package amqp

import (
	"testing"
	"time"
)

func TestSnapshotUpdatedMessageRoundTrip(t *testing.T) {
	updatedAt := time.Date(2024, 1, 20, 6, 30, 0, 0, time.UTC)
	msg := NewSnapshotUpdatedMessage("data/snapshot.json", updatedAt, 42)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := SnapshotUpdatedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Path != "data/snapshot.json" || got.RecordCount != 42 {
		t.Fatalf("unexpected message: %+v", got)
	}
	if !got.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("updated_at: got %v", got.UpdatedAt)
	}
}

func TestSnapshotUpdatedMessageFromBadJSON(t *testing.T) {
	if _, err := SnapshotUpdatedMessageFromJSON([]byte("{")); err == nil {
		t.Fatal("expected error")
	}
}
