package models

import "time"

type ConfigUpdateEvent struct {
	EventType   string                 `json:"event_type"`   // "profile_rule_updated", "product_updated"
	ServiceType string                 `json:"service_type"` // "profile", "recommendation"
	RuleID      string                 `json:"rule_id,omitempty"`
	ProductID   string                 `json:"product_id,omitempty"`
	Action      string                 `json:"action"` // "create", "update", "delete", "toggle"
	Timestamp   time.Time              `json:"timestamp"`
	ChangedBy   string                 `json:"changed_by,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

const (
	EventTypeProfileRuleUpdated = "profile_rule_updated"
	EventTypeProductUpdated     = "product_updated"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionToggle = "toggle"
	ActionReload = "reload"
)

const (
	ServiceTypeProfile        = "profile"
	ServiceTypeRecommendation = "recommendation"
)
