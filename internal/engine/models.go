package engine

import (
	"compass/internal/profile"
)

// RuleStatus gates participation in evaluation. Only active rules fire.
type RuleStatus string

const (
	StatusDraft    RuleStatus = "DRAFT"
	StatusActive   RuleStatus = "ACTIVE"
	StatusInactive RuleStatus = "INACTIVE"
)

// EventType enumerates the business events that can trigger rules.
type EventType string

const (
	EventLogin           EventType = "LOGIN"
	EventSalaryCredit    EventType = "SALARY_CREDIT"
	EventTransfer        EventType = "TRANSFER"
	EventMarketplaceView EventType = "MARKETPLACE_VIEW"
)

func ValidEventType(t EventType) bool {
	switch t {
	case EventLogin, EventSalaryCredit, EventTransfer, EventMarketplaceView:
		return true
	}
	return false
}

// Event is a single occurrence carried into an evaluation pass. It is
// ephemeral: the engine never stores it.
type Event struct {
	Type    EventType              `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// Condition compares a value resolved from the evaluation context
// against a literal. All conditions of a rule must hold (logical AND).
type Condition struct {
	Source string   `json:"source"`
	Op     Operator `json:"op"`
	Value  Value    `json:"value"`
}

// Rule is a declarative policy: when its event occurs and all
// conditions hold, its effects are applied in order.
type Rule struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Status     RuleStatus  `json:"status"`
	Priority   int         `json:"priority"`
	Event      EventType   `json:"event"`
	Conditions []Condition `json:"conditions"`
	Effects    []Effect    `json:"effects"`
}

// TraceEntry records one fired rule and what its effects did.
type TraceEntry struct {
	RuleID            string `json:"rule_id"`
	RuleName          string `json:"rule_name"`
	EffectDescription string `json:"effect_description"`
}

// Result is the outcome of one evaluation pass.
type Result struct {
	Profile *profile.Profile `json:"profile"`
	Trace   []TraceEntry     `json:"trace"`
}
