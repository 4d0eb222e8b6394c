// Package events publishes reservation lifecycle events to Kafka so the
// rest of the back office (reporting, housekeeping boards, notifications)
// can react without polling the store. Publishing is best effort: a failed
// publish is logged by the caller, never surfaced to the guest-facing write.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationUpdated   = "reservation.updated"
	TypeReservationCancelled = "reservation.cancelled"
	TypeReservationDeleted   = "reservation.deleted"
)

// Message is the wire envelope. Key carries the room id so all events for
// one room land on the same partition in order.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// NewMessage builds an envelope for a reservation event. The payload is
// JSON-encoded; an encoding failure is a programming error and is returned
// rather than silently dropped.
func NewMessage(eventType, roomID string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Key:   roomID,
		Value: value,
		Headers: map[string]string{
			"event_id":   uuid.NewString(),
			"event_type": eventType,
			"source":     "roomdesk",
		},
		Timestamp: time.Now().UTC(),
	}, nil
}
