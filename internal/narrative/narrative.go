// Package narrative renders evaluation traces and recommendation
// decisions as human-readable text. It holds no decision logic.
package narrative

import (
	"fmt"
	"strings"

	"compass/internal/engine"
	"compass/internal/recommend"
)

const noRulesTriggered = "No rules triggered."

// RenderTrace formats the fired-rule trace, one line per rule.
func RenderTrace(trace []engine.TraceEntry) string {
	if len(trace) == 0 {
		return noRulesTriggered
	}

	lines := make([]string, 0, len(trace))
	for _, entry := range trace {
		if entry.EffectDescription == "" {
			lines = append(lines, fmt.Sprintf("- %s fired", entry.RuleName))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", entry.RuleName, entry.EffectDescription))
	}
	return strings.Join(lines, "\n")
}

// RenderRecommendations summarizes shown and hidden product names.
func RenderRecommendations(recs []recommend.Recommendation) string {
	shown := make([]string, 0, len(recs))
	hidden := make([]string, 0, len(recs))
	for _, rec := range recs {
		if rec.Decision == recommend.DecisionShown {
			shown = append(shown, rec.Product.Name)
		} else {
			hidden = append(hidden, rec.Product.Name)
		}
	}

	parts := make([]string, 0, 2)
	if len(shown) > 0 {
		parts = append(parts, "Shown: "+strings.Join(shown, ", "))
	} else {
		parts = append(parts, "Shown: none")
	}
	if len(hidden) > 0 {
		parts = append(parts, "Hidden: "+strings.Join(hidden, ", "))
	}
	return strings.Join(parts, ". ") + "."
}

// Render joins the trace and recommendation summaries.
func Render(trace []engine.TraceEntry, recs []recommend.Recommendation) string {
	return RenderTrace(trace) + "\n\n" + RenderRecommendations(recs)
}
