package recommend

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"compass/internal/catalog"
	"compass/internal/profile"
)

// Recommend scores and filters the catalog against a profile and
// returns the full ordered decision list: SHOWN products first, then
// HIDDEN, each partition sorted by ranking score descending with input
// order preserved on ties. Ranks are the contiguous 1-based positions
// of the combined ordering.
//
// Inactive products are excluded from the output entirely. An
// exclusion tag match hides the product before any scoring runs, so
// its ranking score stays 0; a failed threshold hides the product but
// its score and breakdown are still computed.
func Recommend(products []catalog.Product, p *profile.Profile) ([]Recommendation, error) {
	return recommend(products, p, nil)
}

// RecommendWithAudienceMisses behaves like Recommend but additionally
// hides products whose audience expression did not match the profile.
// An audience miss is treated like a failed threshold: the product is
// hidden, the ranking score is still computed.
func RecommendWithAudienceMisses(products []catalog.Product, p *profile.Profile, audienceMisses map[string]bool) ([]Recommendation, error) {
	return recommend(products, p, audienceMisses)
}

func recommend(products []catalog.Product, p *profile.Profile, audienceMisses map[string]bool) ([]Recommendation, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is required")
	}

	recs := make([]Recommendation, 0, len(products))
	for _, product := range products {
		if !product.Active {
			continue
		}
		recs = append(recs, evaluateProduct(product, p, audienceMisses[product.ID]))
	}

	order(recs)
	return recs, nil
}

func evaluateProduct(product catalog.Product, p *profile.Profile, audienceMiss bool) Recommendation {
	rec := Recommendation{
		Product:  product,
		Decision: DecisionShown,
		Why:      make([]string, 0),
	}

	// Exclusion tags short-circuit before any score computation.
	for _, tag := range product.Exclusions {
		if p.HasTag(tag) {
			rec.Decision = DecisionHidden
			rec.Why = append(rec.Why, fmt.Sprintf("Excluded: profile has tag %q", tag))
			return rec
		}
	}

	rec.ScoreBreakdown = make(map[string]float64, len(product.RequiredScores))
	for _, name := range sortedKeys(product.RequiredScores) {
		required := product.RequiredScores[name]
		actual := p.Score(name)
		rec.ScoreBreakdown[name] = actual
		if actual >= required {
			rec.Why = append(rec.Why, fmt.Sprintf("✓ %s: %s (required ≥ %s)",
				name, formatScore(actual), formatScore(required)))
		} else {
			rec.Why = append(rec.Why, fmt.Sprintf("✗ %s: %s (required ≥ %s)",
				name, formatScore(actual), formatScore(required)))
			rec.Decision = DecisionHidden
		}
	}

	if audienceMiss {
		rec.Why = append(rec.Why, "✗ outside product audience")
		rec.Decision = DecisionHidden
	}

	var score float64
	for _, name := range sortedKeys(product.WeightByScore) {
		score += p.Score(name) * product.WeightByScore[name]
	}
	rec.Score = math.Round(score*100) / 100

	return rec
}

func order(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Decision != recs[j].Decision {
			return recs[i].Decision == DecisionShown
		}
		return recs[i].Score > recs[j].Score
	})
	for i := range recs {
		recs[i].Rank = i + 1
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
