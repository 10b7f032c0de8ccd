package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotMessage asks a worker to rewrite the history snapshot of one
// (person, month). The worker reads the rows itself.
type SnapshotMessage struct {
	PersonID    uint      `json:"osoba_id"`
	Month       string    `json:"mesec"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewSnapshotMessage creates a message stamped with the current time.
func NewSnapshotMessage(personID uint, month string) *SnapshotMessage {
	return &SnapshotMessage{
		PersonID:    personID,
		Month:       month,
		RequestedAt: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotMessageFromJSON decodes a message and checks its required fields.
func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.PersonID == 0 || msg.Month == "" {
		return nil, fmt.Errorf("snapshot message missing osoba_id or mesec")
	}
	return &msg, nil
}
