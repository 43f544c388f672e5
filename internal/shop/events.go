package shop

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	EventProductCreated  = "ProductCreated"
	EventProductReplaced = "ProductReplaced"
	EventProductDeleted  = "ProductDeleted"
	EventUserCreated     = "UserCreated"
	EventUserReplaced    = "UserReplaced"
	EventUserDeleted     = "UserDeleted"
	EventOrderCreated    = "OrderCreated"
	EventOrderReplaced   = "OrderReplaced"
	EventOrderDeleted    = "OrderDeleted"
)

// EventVersion is bumped when a payload shape changes incompatibly.
const EventVersion = 1

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // entity id
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps an already encoded payload about entity id.
func NewEnvelope(eventType, producer, traceID string, id int64, payload []byte) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  EventVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: strconv.FormatInt(id, 10),
		Payload:       payload,
	}
}
