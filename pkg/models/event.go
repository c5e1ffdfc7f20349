package models

import "time"

// EventEnvelope is the wire format for customer events on the
// customer_events topic and for profile snapshots on profile_updates.
type EventEnvelope struct {
	ID         string                 `json:"id"`
	CustomerID string                 `json:"customer_id"`
	Type       string                 `json:"type"`
	Source     string                 `json:"source"`
	Timestamp  time.Time              `json:"timestamp"`
	Payload    map[string]interface{} `json:"payload"`
	Metadata   Metadata               `json:"metadata"`
}

type Metadata struct {
	TraceID    string                 `json:"trace_id,omitempty"`
	Evaluation *EvaluationInfo        `json:"evaluation,omitempty"`
	Processing map[string]interface{} `json:"processing,omitempty"`
}

// EvaluationInfo records which rules fired while this event was
// applied to the customer profile.
type EvaluationInfo struct {
	EvaluatedAt time.Time `json:"evaluated_at"`
	RuleIDs     []string  `json:"rule_ids"`
}
