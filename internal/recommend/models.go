package recommend

import "compass/internal/catalog"

// Decision is the per-product visibility outcome.
type Decision string

const (
	DecisionShown  Decision = "SHOWN"
	DecisionHidden Decision = "HIDDEN"
)

// Recommendation is one ranked, explained product decision. Hidden
// products keep their computed ranking score for analysis, except when
// hidden by an exclusion tag, where the score is fixed at 0.
type Recommendation struct {
	Product        catalog.Product    `json:"product"`
	Decision       Decision           `json:"decision"`
	Rank           int                `json:"rank"`
	Score          float64            `json:"score"`
	Why            []string           `json:"why"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
}
