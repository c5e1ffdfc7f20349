package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateEventEnvelope(msg *EventEnvelope) error {
	if msg == nil {
		return &ValidationError{
			Field:   "envelope",
			Message: "event envelope cannot be nil",
		}
	}

	if msg.ID == "" {
		return &ValidationError{
			Field:   "id",
			Message: "event ID is required",
		}
	}

	if msg.CustomerID == "" {
		return &ValidationError{
			Field:   "customer_id",
			Message: "customer ID is required",
		}
	}

	if msg.Type == "" {
		return &ValidationError{
			Field:   "type",
			Message: "event type is required",
		}
	}

	if msg.Timestamp.IsZero() {
		return &ValidationError{
			Field:   "timestamp",
			Message: "event timestamp is required",
		}
	}

	if msg.Payload == nil {
		return &ValidationError{
			Field:   "payload",
			Message: "event payload cannot be nil",
		}
	}

	return nil
}

func (msg *EventEnvelope) GetPayloadField(name string) (interface{}, bool) {
	if msg.Payload == nil {
		return nil, false
	}

	value, ok := msg.Payload[name]
	return value, ok
}

func (msg *EventEnvelope) SetPayloadField(name string, value interface{}) {
	if msg.Payload == nil {
		msg.Payload = make(map[string]interface{})
	}

	msg.Payload[name] = value
}
