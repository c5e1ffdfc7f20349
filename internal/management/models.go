package management

import (
	"time"

	"compass/internal/engine"
	"compass/internal/profile"
	"compass/internal/recommend"
)

type ProfileRule struct {
	ID         string             `json:"id" db:"id"`
	Name       string             `json:"name" db:"name"`
	EventType  engine.EventType   `json:"event_type" db:"event_type"`
	Status     engine.RuleStatus  `json:"status" db:"status"`
	Priority   int                `json:"priority" db:"priority"`
	Conditions []engine.Condition `json:"conditions" db:"conditions"`
	Effects    []engine.Effect    `json:"effects" db:"effects"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" db:"updated_at"`
}

func (r *ProfileRule) ToEngineRule() engine.Rule {
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

type CreateProfileRuleRequest struct {
	Name       string             `json:"name" binding:"required"`
	EventType  string             `json:"event_type" binding:"required"`
	Status     *string            `json:"status"`
	Priority   int                `json:"priority"`
	Conditions []engine.Condition `json:"conditions"`
	Effects    []engine.Effect    `json:"effects"`
}

type UpdateProfileRuleRequest struct {
	Name       *string             `json:"name"`
	EventType  *string             `json:"event_type"`
	Status     *string             `json:"status"`
	Priority   *int                `json:"priority"`
	Conditions *[]engine.Condition `json:"conditions"`
	Effects    *[]engine.Effect    `json:"effects"`
}

type CreateProductRequest struct {
	Name           string             `json:"name" binding:"required"`
	RequiredScores map[string]float64 `json:"required_scores"`
	WeightByScore  map[string]float64 `json:"weight_by_score"`
	Exclusions     []string           `json:"exclusions"`
	Audience       string             `json:"audience"`
	Active         *bool              `json:"active"`
}

type UpdateProductRequest struct {
	Name           *string             `json:"name"`
	RequiredScores *map[string]float64 `json:"required_scores"`
	WeightByScore  *map[string]float64 `json:"weight_by_score"`
	Exclusions     *[]string           `json:"exclusions"`
	Audience       *string             `json:"audience"`
	Active         *bool               `json:"active"`
}

// SimulationProfile is the caller-supplied starting profile for a
// sandbox run. Nothing about it is read from or written to storage.
type SimulationProfile struct {
	CustomerID string                 `json:"customer_id"`
	StaticData map[string]interface{} `json:"static_data"`
	Behavioral map[string]interface{} `json:"behavioral"`
	Scores     map[string]float64     `json:"scores"`
	Tags       []string               `json:"tags"`
}

type SimulationRequest struct {
	Profile SimulationProfile `json:"profile"`
	Events  []engine.Event    `json:"events" binding:"required"`
}

type SimulationResponse struct {
	Profile         *profile.Profile           `json:"profile"`
	Trace           []engine.TraceEntry        `json:"trace"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Narrative       string                     `json:"narrative"`
}
