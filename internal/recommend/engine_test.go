package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/catalog"
	"compass/internal/profile"
)

func testProfile() *profile.Profile {
	p := profile.New("cust-1")
	p.Scores["financialStability"] = 60
	p.Scores["engagement"] = 40
	p.Tags = []string{"stable-income"}
	return p
}

func activeProduct(id, name string) catalog.Product {
	return catalog.Product{ID: id, Name: name, Active: true}
}

func TestRecommend_NilProfile(t *testing.T) {
	_, err := Recommend(nil, nil)
	require.Error(t, err)
}

func TestRecommend_InactiveProductsExcluded(t *testing.T) {
	products := []catalog.Product{
		{ID: "p1", Name: "Active", Active: true},
		{ID: "p2", Name: "Retired", Active: false},
	}

	recs, err := Recommend(products, testProfile())
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "p1", recs[0].Product.ID)
}

func TestRecommend_ThresholdDecision(t *testing.T) {
	product := activeProduct("p1", "Premium Card")
	product.RequiredScores = map[string]float64{
		"financialStability": 50,
		"engagement":         30,
	}

	recs, err := Recommend([]catalog.Product{product}, testProfile())
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, DecisionShown, recs[0].Decision)
	assert.Equal(t, []string{
		"✓ engagement: 40 (required ≥ 30)",
		"✓ financialStability: 60 (required ≥ 50)",
	}, recs[0].Why)
	assert.Equal(t, map[string]float64{
		"financialStability": 60,
		"engagement":         40,
	}, recs[0].ScoreBreakdown)
}

func TestRecommend_FailedThresholdStillScored(t *testing.T) {
	product := activeProduct("p1", "Premium Card")
	product.RequiredScores = map[string]float64{"financialStability": 80}
	product.WeightByScore = map[string]float64{"financialStability": 0.5}

	recs, err := Recommend([]catalog.Product{product}, testProfile())
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, DecisionHidden, recs[0].Decision)
	assert.Equal(t, 30.0, recs[0].Score)
	assert.Equal(t, []string{"✗ financialStability: 60 (required ≥ 80)"}, recs[0].Why)
}

func TestRecommend_ExclusionShortCircuits(t *testing.T) {
	product := activeProduct("p1", "Savings Plan")
	product.Exclusions = []string{"stable-income"}
	product.RequiredScores = map[string]float64{"financialStability": 10}
	product.WeightByScore = map[string]float64{"financialStability": 1}

	recs, err := Recommend([]catalog.Product{product}, testProfile())
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, DecisionHidden, recs[0].Decision)
	assert.Equal(t, 0.0, recs[0].Score)
	assert.Nil(t, recs[0].ScoreBreakdown)
	assert.Equal(t, []string{`Excluded: profile has tag "stable-income"`}, recs[0].Why)
}

func TestRecommend_WeightedScoreRounding(t *testing.T) {
	product := activeProduct("p1", "Card")
	product.WeightByScore = map[string]float64{
		"financialStability": 0.333,
		"engagement":         0.111,
	}

	recs, err := Recommend([]catalog.Product{product}, testProfile())
	require.NoError(t, err)

	// 60*0.333 + 40*0.111 = 24.42
	assert.Equal(t, 24.42, recs[0].Score)
}

func TestRecommend_OrderingAndRanks(t *testing.T) {
	p := testProfile()

	shownHigh := activeProduct("p1", "Shown High")
	shownHigh.WeightByScore = map[string]float64{"financialStability": 1}

	shownLow := activeProduct("p2", "Shown Low")
	shownLow.WeightByScore = map[string]float64{"engagement": 0.5}

	hidden := activeProduct("p3", "Hidden")
	hidden.RequiredScores = map[string]float64{"financialStability": 99}
	hidden.WeightByScore = map[string]float64{"financialStability": 2}

	recs, err := Recommend([]catalog.Product{hidden, shownLow, shownHigh}, p)
	require.NoError(t, err)

	require.Len(t, recs, 3)
	// SHOWN first regardless of score, then HIDDEN; ranks contiguous.
	assert.Equal(t, "p1", recs[0].Product.ID)
	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, "p2", recs[1].Product.ID)
	assert.Equal(t, 2, recs[1].Rank)
	assert.Equal(t, "p3", recs[2].Product.ID)
	assert.Equal(t, 3, recs[2].Rank)
	assert.Equal(t, DecisionHidden, recs[2].Decision)
	assert.Equal(t, 120.0, recs[2].Score)
}

func TestRecommend_TiesKeepInputOrder(t *testing.T) {
	a := activeProduct("a", "A")
	b := activeProduct("b", "B")

	recs, err := Recommend([]catalog.Product{a, b}, testProfile())
	require.NoError(t, err)

	assert.Equal(t, "a", recs[0].Product.ID)
	assert.Equal(t, "b", recs[1].Product.ID)
}

func TestRecommendWithAudienceMisses(t *testing.T) {
	product := activeProduct("p1", "Targeted Offer")
	product.WeightByScore = map[string]float64{"engagement": 1}

	recs, err := RecommendWithAudienceMisses(
		[]catalog.Product{product},
		testProfile(),
		map[string]bool{"p1": true},
	)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, DecisionHidden, recs[0].Decision)
	assert.Equal(t, 40.0, recs[0].Score)
	assert.Contains(t, recs[0].Why, "✗ outside product audience")
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	recs, err := Recommend(nil, testProfile())
	require.NoError(t, err)
	assert.Empty(t, recs)
}
