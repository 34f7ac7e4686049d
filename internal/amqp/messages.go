package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotUpdatedMessage announces that the exporter regenerated the
// snapshot file. Consumers refetch the file themselves; the message
// carries only metadata, never the records.
type SnapshotUpdatedMessage struct {
	Path        string    `json:"path"`
	UpdatedAt   time.Time `json:"updated_at"`
	RecordCount int       `json:"record_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewSnapshotUpdatedMessage creates a message for one export.
func NewSnapshotUpdatedMessage(path string, updatedAt time.Time, recordCount int) *SnapshotUpdatedMessage {
	return &SnapshotUpdatedMessage{
		Path:        path,
		UpdatedAt:   updatedAt,
		RecordCount: recordCount,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SnapshotUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotUpdatedMessageFromJSON creates a message from JSON bytes.
func SnapshotUpdatedMessageFromJSON(data []byte) (*SnapshotUpdatedMessage, error) {
	var msg SnapshotUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
