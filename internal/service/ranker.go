package service

import (
	"math"
	"sort"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/utils"
)

// Match reason constants
const (
	ReasonLocationMatch = "Location match"
	ReasonBedroomsMatch = "Bedrooms match"
	ReasonPriceMatch    = "Price within budget"
	ReasonAmenityPrefix = "Amenity: "
	ReasonGeneralMatch  = "General match"
)

// Ranker handles ranking and scoring of filtered listings
type Ranker struct {
	weightAmenity float64
	weightPrice   float64
}

// NewRanker creates a new ranker with specified weights
func NewRanker(weightAmenity, weightPrice float64) *Ranker {
	return &Ranker{
		weightAmenity: weightAmenity,
		weightPrice:   weightPrice,
	}
}

// RankQuery is everything the ranker scores against
type RankQuery struct {
	Filters   model.BasicFilters
	Amenities []string
	Bounds    *PriceBounds
}

// Rank scores and orders listings. Ties keep the input order.
func (r *Ranker) Rank(properties []model.Property, q RankQuery) []model.RankedProperty {
	results := make([]model.RankedProperty, 0, len(properties))

	for _, p := range properties {
		matched := r.matchAmenities(p, q.Amenities)
		amenityScore := 0.0
		if len(q.Amenities) > 0 {
			amenityScore = float64(len(matched)) / float64(len(q.Amenities))
		}
		priceScore := r.calculatePriceScore(p, q.Bounds)

		results = append(results, model.RankedProperty{
			Property:       p,
			Score:          r.weightAmenity*amenityScore + r.weightPrice*priceScore,
			MatchedReasons: r.generateMatchedReasons(p, q, matched),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// matchAmenities returns the wanted amenities the listing offers, in request order
func (r *Ranker) matchAmenities(p model.Property, wanted []string) []string {
	matched := make([]string, 0, len(wanted))
	for _, w := range wanted {
		for _, have := range p.Amenities {
			if utils.FuzzyMatchAmenity(w, have) {
				matched = append(matched, have)
				break
			}
		}
	}
	return matched
}

// calculatePriceScore calculates how close the price sits to the budget midpoint
func (r *Ranker) calculatePriceScore(p model.Property, bounds *PriceBounds) float64 {
	if bounds == nil {
		return 1.0 // Full score if no price filter
	}
	if !bounds.Contains(p) {
		return 0.0
	}
	// Open-ended top bucket: anything inside is a full match
	if math.IsInf(bounds.Max, 1) {
		return 1.0
	}

	midpoint := (bounds.Min + bounds.Max) / 2
	halfRange := (bounds.Max - bounds.Min) / 2
	if halfRange == 0 {
		return 1.0
	}

	score := 1.0 - math.Abs(bounds.Value(p)-midpoint)/halfRange
	if score < 0 {
		score = 0
	}
	return score
}

// generateMatchedReasons generates human-readable reasons for why this listing matched
func (r *Ranker) generateMatchedReasons(p model.Property, q RankQuery, matchedAmenities []string) []string {
	reasons := []string{}

	f := q.Filters.Normalize()
	if f.Location != nil {
		reasons = append(reasons, ReasonLocationMatch)
	}
	if f.Bedrooms != nil {
		reasons = append(reasons, ReasonBedroomsMatch)
	}
	if q.Bounds != nil && q.Bounds.Contains(p) {
		reasons = append(reasons, ReasonPriceMatch)
	}
	for _, a := range matchedAmenities {
		reasons = append(reasons, ReasonAmenityPrefix+utils.NormalizeAmenity(a))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}
