package nlp

import (
	"fmt"
	"math"
	"regexp"
)

// Config holds the tunable tables and thresholds of the extraction pipeline
type Config struct {
	FuzzyThreshold      float64
	MinWordLength       int
	MaxBedrooms         int
	BudgetRanges        BudgetTable
	CurrencyMultipliers map[string]float64
	BedroomPatterns     []string
	NumberWords         map[string]string
	FallbackCities      []string
}

// DefaultConfig returns the stock tables
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold: 0.75,
		MinWordLength:  3,
		MaxBedrooms:    10,
		BudgetRanges: BudgetTable{
			{Min: 0, Max: 50000, Label: "0-50k"},
			{Min: 50000, Max: 100000, Label: "50k-100k"},
			{Min: 100000, Max: 200000, Label: "100k-200k"},
			{Min: 200000, Max: 300000, Label: "200k-300k"},
			{Min: 300000, Max: 500000, Label: "300k-500k"},
			{Min: 500000, Max: 750000, Label: "500k-750k"},
			{Min: 750000, Max: 1000000, Label: "750k-1m"},
			{Min: 1000000, Max: math.Inf(1), Label: "1m+"},
		},
		CurrencyMultipliers: map[string]float64{
			"k":        1e3,
			"thousand": 1e3,
			"l":        1e5,
			"lakh":     1e5,
			"lac":      1e5,
			"m":        1e6,
			"million":  1e6,
			"cr":       1e7,
			"crore":    1e7,
			"b":        1e9,
			"billion":  1e9,
		},
		BedroomPatterns: []string{
			`(\d+)\s*(?:bhk|bedroom|bed|br|room)`,
			`(?:bhk|bedroom|bed|br)\s*(\d+)`,
			`(\d+)\s*(?:bed|br)\b`,
		},
		NumberWords: map[string]string{
			"one": "1", "two": "2", "three": "3", "four": "4", "five": "5",
			"six": "6", "seven": "7", "eight": "8", "nine": "9", "ten": "10",
		},
		FallbackCities: []string{
			"new york", "miami", "los angeles", "austin", "san francisco",
			"chicago", "dallas", "seattle", "boston", "mumbai", "delhi",
			"bangalore", "pune", "hyderabad", "chennai",
		},
	}
}

// Validate checks the structural invariants the extractors rely on
func (c Config) Validate() error {
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold must be in (0, 1], got %v", c.FuzzyThreshold)
	}
	if c.MinWordLength < 1 {
		return fmt.Errorf("min word length must be positive, got %d", c.MinWordLength)
	}
	if c.MaxBedrooms < 1 {
		return fmt.Errorf("max bedrooms must be positive, got %d", c.MaxBedrooms)
	}
	if err := c.BudgetRanges.Validate(); err != nil {
		return fmt.Errorf("budget ranges: %w", err)
	}
	for unit, mult := range c.CurrencyMultipliers {
		if unit == "" || mult <= 0 {
			return fmt.Errorf("invalid currency multiplier %q=%v", unit, mult)
		}
	}
	if len(c.BedroomPatterns) == 0 {
		return fmt.Errorf("at least one bedroom pattern is required")
	}
	for _, p := range c.BedroomPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("bedroom pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("bedroom pattern %q has no capture group", p)
		}
	}
	return nil
}
