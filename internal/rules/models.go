package rules

import (
	"time"

	"compass/internal/engine"
)

// StoredRule is a profile rule as persisted in PostgreSQL. The
// conditions and effects columns are JSONB documents.
type StoredRule struct {
	ID         string
	Name       string
	Status     engine.RuleStatus
	Priority   int
	EventType  engine.EventType
	Conditions []engine.Condition
	Effects    []engine.Effect
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r StoredRule) ToEngineRule() engine.Rule {
	return engine.Rule{
		ID:         r.ID,
		Name:       r.Name,
		Status:     r.Status,
		Priority:   r.Priority,
		Event:      r.EventType,
		Conditions: r.Conditions,
		Effects:    r.Effects,
	}
}
