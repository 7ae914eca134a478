package nlp

import (
	"fmt"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
)

// RuleExtractor composes the deterministic extractors into one filter record
type RuleExtractor struct {
	location *LocationMatcher
	budget   *BudgetNormalizer
	bedrooms *BedroomExtractor
}

// NewRuleExtractor validates cfg and builds the three extractors
func NewRuleExtractor(cfg Config, catalog *LocationCatalog) (*RuleExtractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid nlp config: %w", err)
	}
	budget, err := NewBudgetNormalizer(cfg.BudgetRanges, cfg.CurrencyMultipliers)
	if err != nil {
		return nil, fmt.Errorf("budget normalizer: %w", err)
	}
	bedrooms, err := NewBedroomExtractor(cfg.BedroomPatterns, cfg.NumberWords, cfg.MaxBedrooms)
	if err != nil {
		return nil, fmt.Errorf("bedroom extractor: %w", err)
	}
	return &RuleExtractor{
		location: NewLocationMatcher(catalog, cfg.FuzzyThreshold, cfg.MinWordLength),
		budget:   budget,
		bedrooms: bedrooms,
	}, nil
}

// Extract fills location, budget and bedrooms independently. It never fails;
// empty text gives an all-absent result.
func (r *RuleExtractor) Extract(text string) model.FilterResult {
	result := model.NewFilterResult()
	if city, _, ok := r.location.Match(text); ok {
		result.Location = model.StringPtr(city)
	}
	if label, ok := r.budget.Extract(text); ok {
		result.Budget = model.StringPtr(label)
	}
	if n, ok := r.bedrooms.Extract(text); ok {
		result.Bedrooms = model.StringPtr(n)
	}
	return result
}

// Budget exposes the normalizer, used to validate budgets from other sources
func (r *RuleExtractor) Budget() *BudgetNormalizer {
	return r.budget
}

// Bedrooms exposes the bedroom extractor
func (r *RuleExtractor) Bedrooms() *BedroomExtractor {
	return r.bedrooms
}

// Locations exposes the location matcher
func (r *RuleExtractor) Locations() *LocationMatcher {
	return r.location
}
