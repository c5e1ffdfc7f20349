package catalog

import "time"

// Product is a recommendable catalog entry. RequiredScores gates
// visibility, WeightByScore drives ranking, Exclusions hides the
// product outright for profiles carrying any listed tag, and the
// optional Audience CEL expression narrows targeting beyond the
// declarative thresholds.
type Product struct {
	ID             string             `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	RequiredScores map[string]float64 `json:"required_scores" bson:"required_scores"`
	WeightByScore  map[string]float64 `json:"weight_by_score" bson:"weight_by_score"`
	Exclusions     []string           `json:"exclusions" bson:"exclusions"`
	Audience       string             `json:"audience,omitempty" bson:"audience,omitempty"`
	Active         bool               `json:"active" bson:"active"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
