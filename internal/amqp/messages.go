package amqp

import (
	"encoding/json"
	"time"

	"spentnest/internal/bus"
)

// EntityChangedMessage mirrors one committed entity change to the
// broker. Consumers fetch current state from the backend themselves;
// the message carries only what changed and for whom.
type EntityChangedMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntityChangedMessage builds a message from a bus event.
func NewEntityChangedMessage(ev bus.Event) *EntityChangedMessage {
	return &EntityChangedMessage{
		Entity:    string(ev.Entity),
		Action:    string(ev.Action),
		UserID:    ev.UserID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntityChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntityChangedMessageFromJSON creates a message from JSON bytes
func EntityChangedMessageFromJSON(data []byte) (*EntityChangedMessage, error) {
	var msg EntityChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
