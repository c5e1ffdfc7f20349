package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"compass/internal/profile"
)

func TestApply_ScoreDelta(t *testing.T) {
	p := profile.New("cust-1")
	p.Scores["financialStability"] = 52

	next, desc := Apply(p, Effect{Type: EffectScoreDelta, Score: "financialStability", Delta: 10})

	assert.Equal(t, 62.0, next.Scores["financialStability"])
	assert.Equal(t, "financialStability +10 (52 → 62)", desc)
	assert.Equal(t, 52.0, p.Scores["financialStability"])
}

func TestApply_ScoreDeltaNegative(t *testing.T) {
	p := profile.New("cust-1")
	p.Scores["risk"] = 20

	_, desc := Apply(p, Effect{Type: EffectScoreDelta, Score: "risk", Delta: -5})

	assert.Equal(t, "risk -5 (20 → 15)", desc)
}

func TestApply_ScoreDeltaCreatesScore(t *testing.T) {
	p := profile.New("cust-1")

	next, desc := Apply(p, Effect{Type: EffectScoreDelta, Score: "engagement", Delta: 7.5})

	assert.Equal(t, 7.5, next.Scores["engagement"])
	assert.Equal(t, "engagement +7.5 (0 → 7.5)", desc)
}

func TestApply_ScoreDeltaMissingName(t *testing.T) {
	p := profile.New("cust-1")

	next, desc := Apply(p, Effect{Type: EffectScoreDelta, Delta: 10})

	assert.Empty(t, desc)
	assert.Empty(t, next.Scores)
}

func TestApply_AddTag(t *testing.T) {
	p := profile.New("cust-1")

	next, desc := Apply(p, Effect{Type: EffectAddTag, Tag: "stable-income"})

	assert.Equal(t, `Added tag "stable-income"`, desc)
	assert.True(t, next.HasTag("stable-income"))
	assert.Empty(t, p.Tags)
}

func TestApply_AddTagIdempotent(t *testing.T) {
	p := profile.New("cust-1")
	p.Tags = []string{"stable-income"}

	next, desc := Apply(p, Effect{Type: EffectAddTag, Tag: "stable-income"})

	assert.Empty(t, desc)
	assert.Equal(t, []string{"stable-income"}, next.Tags)
}

func TestApply_RemoveTag(t *testing.T) {
	p := profile.New("cust-1")
	p.Tags = []string{"a", "dormant", "b"}

	next, desc := Apply(p, Effect{Type: EffectRemoveTag, Tag: "dormant"})

	assert.Equal(t, `Removed tag "dormant"`, desc)
	assert.Equal(t, []string{"a", "b"}, next.Tags)
}

func TestApply_RemoveTagAbsent(t *testing.T) {
	p := profile.New("cust-1")

	next, desc := Apply(p, Effect{Type: EffectRemoveTag, Tag: "missing"})

	assert.Empty(t, desc)
	assert.Empty(t, next.Tags)
}

func TestApply_UnknownEffectType(t *testing.T) {
	p := profile.New("cust-1")

	next, desc := Apply(p, Effect{Type: "teleport"})

	assert.Empty(t, desc)
	assert.Equal(t, p.CustomerID, next.CustomerID)
}

func TestApply_NilScoresMap(t *testing.T) {
	p := &profile.Profile{CustomerID: "cust-1"}

	next, desc := Apply(p, Effect{Type: EffectScoreDelta, Score: "x", Delta: 1})

	assert.Equal(t, 1.0, next.Scores["x"])
	assert.Equal(t, "x +1 (0 → 1)", desc)
}
