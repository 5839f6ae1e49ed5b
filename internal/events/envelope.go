package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const envelopeVersion = 1

// EventEnvelope wraps every order event. Sequence increases by one per
// event of the same order.
type EventEnvelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	CausationID   string    `json:"causationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      *int64    `json:"sequence,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       T         `json:"payload"`
}

// Validate checks the routing fields a consumer depends on.
func (e EventEnvelope[T]) Validate(name string, version int) error {
	switch {
	case e.EventName != name:
		return fmt.Errorf("want event %s, got %q", name, e.EventName)
	case e.EventVersion != version:
		return fmt.Errorf("%s: unsupported version %d", name, e.EventVersion)
	case e.EventID == "":
		return fmt.Errorf("%s: missing eventId", name)
	case e.PartitionKey == "":
		return fmt.Errorf("%s %s: missing partitionKey", name, e.EventID)
	case e.Sequence != nil && *e.Sequence < 1:
		return fmt.Errorf("%s %s: sequence %d out of range", name, e.EventID, *e.Sequence)
	}
	return nil
}

// decodeEnvelope parses and validates body. Any failure wraps ErrMalformed.
func decodeEnvelope[T any](body []byte, name string) (EventEnvelope[T], error) {
	var env EventEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("%w: decode %s: %v", ErrMalformed, name, err)
	}
	if err := env.Validate(name, envelopeVersion); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return env, nil
}
