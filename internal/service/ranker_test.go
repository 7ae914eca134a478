package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
)

func rankedIDs(ranked []model.RankedProperty) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.ID)
	}
	return out
}

func TestRanker_AmenityScore(t *testing.T) {
	r := NewRanker(0.6, 0.4)
	props := fixtureProperties()

	ranked := r.Rank([]model.Property{props[1], props[0], props[4]}, RankQuery{Amenities: []string{"gym"}})
	require.Len(t, ranked, 3)

	// ties keep input order
	assert.Equal(t, []string{"1", "5", "2"}, rankedIDs(ranked))
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
	assert.InDelta(t, 0.4, ranked[2].Score, 1e-9)
	assert.Equal(t, []string{"Amenity: Gym"}, ranked[0].MatchedReasons)
	assert.Equal(t, []string{ReasonGeneralMatch}, ranked[2].MatchedReasons)
}

func TestRanker_AmenityAliases(t *testing.T) {
	r := NewRanker(1, 0)
	props := fixtureProperties()

	ranked := r.Rank([]model.Property{props[1]}, RankQuery{Amenities: []string{"lift", "pool"}})
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.5, ranked[0].Score, 1e-9)
	assert.Equal(t, []string{"Amenity: Lift"}, ranked[0].MatchedReasons)
}

func TestRanker_PriceProximity(t *testing.T) {
	r := NewRanker(0.6, 0.4)
	bounds := &PriceBounds{Min: 300000, Max: 500000}
	props := []model.Property{
		{ID: "edge", Price: 450000},
		{ID: "mid", Price: 400000},
	}

	ranked := r.Rank(props, RankQuery{Bounds: bounds, Filters: model.BasicFilters{Budget: model.StringPtr("300k-500k")}})
	require.Len(t, ranked, 2)
	assert.Equal(t, []string{"mid", "edge"}, rankedIDs(ranked))
	assert.InDelta(t, 0.4, ranked[0].Score, 1e-9)
	assert.InDelta(t, 0.2, ranked[1].Score, 1e-9)
	assert.Contains(t, ranked[0].MatchedReasons, ReasonPriceMatch)
}

func TestRanker_OpenEndedBudget(t *testing.T) {
	r := NewRanker(0, 1)
	bounds := &PriceBounds{Min: 2e7, Max: math.Inf(1), Inclusive: true, ToINR: 83}

	ranked := r.Rank([]model.Property{{ID: "a", Price: 3e7, Location: "Pune"}}, RankQuery{Bounds: bounds})
	require.Len(t, ranked, 1)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
}

func TestRanker_FilterReasons(t *testing.T) {
	r := NewRanker(0.6, 0.4)
	filters := model.BasicFilters{Location: model.StringPtr("Mumbai"), Bedrooms: model.StringPtr("3")}

	ranked := r.Rank(fixtureProperties()[:1], RankQuery{Filters: filters})
	require.Len(t, ranked, 1)
	assert.Equal(t, []string{ReasonLocationMatch, ReasonBedroomsMatch}, ranked[0].MatchedReasons)
}

func TestRanker_Empty(t *testing.T) {
	ranked := NewRanker(0.6, 0.4).Rank(nil, RankQuery{})
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}
