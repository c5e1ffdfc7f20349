package engine

import (
	"fmt"
	"strconv"

	"compass/internal/profile"
)

// EffectType discriminates the closed set of profile mutations.
type EffectType string

const (
	EffectScoreDelta EffectType = "scoreDelta"
	EffectAddTag     EffectType = "addTag"
	EffectRemoveTag  EffectType = "removeTag"
)

func ValidEffectType(t EffectType) bool {
	switch t {
	case EffectScoreDelta, EffectAddTag, EffectRemoveTag:
		return true
	}
	return false
}

// Effect is one atomic profile mutation. Score and Delta apply to
// scoreDelta; Tag applies to addTag/removeTag.
type Effect struct {
	Type  EffectType `json:"type"`
	Score string     `json:"score,omitempty"`
	Delta float64    `json:"delta,omitempty"`
	Tag   string     `json:"tag,omitempty"`
}

// Apply applies one effect to a deep copy of the profile and returns
// the new profile plus a human-readable description of what changed.
// The input profile is never mutated. Effects with missing required
// fields, no-op tag operations, and unknown effect types all return an
// empty description; empty descriptions are dropped from trace text.
func Apply(p *profile.Profile, effect Effect) (*profile.Profile, string) {
	next := p.Clone()
	if next.Scores == nil {
		next.Scores = make(map[string]float64)
	}

	switch effect.Type {
	case EffectScoreDelta:
		if effect.Score == "" {
			return next, ""
		}
		old := next.Scores[effect.Score]
		updated := old + effect.Delta
		next.Scores[effect.Score] = updated
		return next, fmt.Sprintf("%s %s (%s → %s)",
			effect.Score,
			formatDelta(effect.Delta),
			formatScore(old),
			formatScore(updated),
		)
	case EffectAddTag:
		if effect.Tag == "" || next.HasTag(effect.Tag) {
			return next, ""
		}
		next.Tags = append(next.Tags, effect.Tag)
		return next, fmt.Sprintf("Added tag %q", effect.Tag)
	case EffectRemoveTag:
		if effect.Tag == "" || !next.HasTag(effect.Tag) {
			return next, ""
		}
		tags := make([]string, 0, len(next.Tags)-1)
		for _, t := range next.Tags {
			if t != effect.Tag {
				tags = append(tags, t)
			}
		}
		next.Tags = tags
		return next, fmt.Sprintf("Removed tag %q", effect.Tag)
	default:
		return next, ""
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDelta(delta float64) string {
	if delta >= 0 {
		return "+" + formatScore(delta)
	}
	return formatScore(delta)
}
