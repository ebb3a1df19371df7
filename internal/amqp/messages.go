package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Operation tells the worker what to do with the downstream row.
type Operation string

const (
	OpUpsert Operation = "upsert"
	OpDelete Operation = "delete"
)

// RecordSyncMessage is a lightweight pointer to a ledger record. The worker
// fetches the full record from the database, so a stale message never
// overwrites newer data.
type RecordSyncMessage struct {
	MessageID string    `json:"message_id"`
	Op        Operation `json:"op"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(id, version int64) *RecordSyncMessage {
	return &RecordSyncMessage{
		MessageID: uuid.NewString(),
		Op:        OpUpsert,
		ID:        id,
		Version:   version,
		Timestamp: time.Now().UTC(),
	}
}

func NewRecordDeleteMessage(id int64) *RecordSyncMessage {
	return &RecordSyncMessage{
		MessageID: uuid.NewString(),
		Op:        OpDelete,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordSyncMessageFromJSON decodes and validates a message body. Messages
// without an op are treated as upserts.
func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op == "" {
		msg.Op = OpUpsert
	}
	if msg.Op != OpUpsert && msg.Op != OpDelete {
		return nil, fmt.Errorf("unknown op %q", msg.Op)
	}
	if msg.ID <= 0 {
		return nil, fmt.Errorf("invalid record id %d", msg.ID)
	}
	return &msg, nil
}
