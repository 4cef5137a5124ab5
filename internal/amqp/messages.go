package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by entry events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntryEventMessage notifies consumers that a ledger entry was mutated.
// It carries ids only; consumers fetch current state from the store, so a
// stale or replayed message is harmless.
type EntryEventMessage struct {
	EntryID   string    `json:"entry_id"`
	OwnerID   string    `json:"owner_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryEventMessage(entryID, ownerID, action string) *EntryEventMessage {
	return &EntryEventMessage{
		EntryID:   entryID,
		OwnerID:   ownerID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryEventMessageFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
