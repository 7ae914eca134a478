package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
)

// NLPFile is the optional YAML overlay for the extraction tables.
// Sections left out of the file keep their defaults.
type NLPFile struct {
	FuzzyThreshold      *float64           `yaml:"fuzzy_threshold" validate:"omitempty,gt=0,lte=1"`
	MaxBedrooms         *int               `yaml:"max_bedrooms" validate:"omitempty,min=1,max=50"`
	BudgetRanges        []BudgetRangeEntry `yaml:"budget_ranges" validate:"omitempty,dive"`
	CurrencyMultipliers map[string]float64 `yaml:"currency_multipliers" validate:"omitempty,dive,keys,required,endkeys,gt=0"`
	BedroomPatterns     []string           `yaml:"bedroom_patterns" validate:"omitempty,dive,required"`
	NumberWords         map[string]string  `yaml:"number_words" validate:"omitempty,dive,keys,required,endkeys,numeric"`
	FallbackCities      []string           `yaml:"fallback_cities" validate:"omitempty,dive,required"`
}

// BudgetRangeEntry is one bucket; a missing max means unbounded
type BudgetRangeEntry struct {
	Label string   `yaml:"label" validate:"required"`
	Min   float64  `yaml:"min" validate:"gte=0"`
	Max   *float64 `yaml:"max" validate:"omitempty,gtfield=Min"`
}

// LoadNLPFile reads and validates the overlay at path.
// An empty path or a missing file yields nil, nil.
func LoadNLPFile(path string) (*NLPFile, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var f NLPFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validator.New().Struct(&f); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return &f, nil
}

// Apply overwrites the sections present in the file
func (f *NLPFile) Apply(cfg *nlp.Config) {
	if f == nil {
		return
	}
	if f.FuzzyThreshold != nil {
		cfg.FuzzyThreshold = *f.FuzzyThreshold
	}
	if f.MaxBedrooms != nil {
		cfg.MaxBedrooms = *f.MaxBedrooms
	}
	if len(f.BudgetRanges) > 0 {
		table := make(nlp.BudgetTable, 0, len(f.BudgetRanges))
		for _, r := range f.BudgetRanges {
			max := math.Inf(1)
			if r.Max != nil {
				max = *r.Max
			}
			table = append(table, nlp.BudgetRange{Min: r.Min, Max: max, Label: r.Label})
		}
		cfg.BudgetRanges = table
	}
	if len(f.CurrencyMultipliers) > 0 {
		cfg.CurrencyMultipliers = f.CurrencyMultipliers
	}
	if len(f.BedroomPatterns) > 0 {
		cfg.BedroomPatterns = f.BedroomPatterns
	}
	if len(f.NumberWords) > 0 {
		cfg.NumberWords = f.NumberWords
	}
	if len(f.FallbackCities) > 0 {
		cfg.FallbackCities = f.FallbackCities
	}
}
