package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/repository"
)

// ErrPropertyNotFound is returned when no listing has the requested id
var ErrPropertyNotFound = errors.New("property not found")

// indianCities marks listings whose prices are quoted in INR
var indianCities = []string{"mumbai", "delhi", "bangalore", "pune", "gurgaon", "noida", "hyderabad", "chennai"}

// IsIndianCity reports whether location names one of the INR markets
func IsIndianCity(location string) bool {
	lower := strings.ToLower(location)
	for _, city := range indianCities {
		if strings.Contains(lower, city) {
			return true
		}
	}
	return false
}

// PriceBounds is a resolved budget filter.
// Table labels are half-open on the native price. Legacy INR labels are
// inclusive and compare USD listings after conversion.
type PriceBounds struct {
	Min       float64
	Max       float64
	Inclusive bool
	ToINR     float64
}

// Value returns the price of p in the currency of the bounds
func (b PriceBounds) Value(p model.Property) float64 {
	if b.ToINR > 0 && !IsIndianCity(p.Location) {
		return p.Price * b.ToINR
	}
	return p.Price
}

// Contains reports whether p is priced inside the bounds
func (b PriceBounds) Contains(p model.Property) bool {
	v := b.Value(p)
	if b.Inclusive {
		return v >= b.Min && v <= b.Max
	}
	return v >= b.Min && v < b.Max
}

// legacyBudgets are the INR labels of the web filter panel.
// Keys are matched after lowercasing and removing spaces and dashes, in order.
var legacyBudgets = []struct {
	key      string
	min, max float64
}{
	{"50l1cr", 5e6, 1e7},
	{"050l", 0, 5e6},
	{"1cr2cr", 1e7, 2e7},
	{"2cr", 2e7, math.Inf(1)},
}

// PropertyService serves the JSON listing dataset
type PropertyService struct {
	dir      string
	table    nlp.BudgetTable
	usdToINR float64
	logger   *slog.Logger

	once       sync.Once
	properties []model.Property
	loadErr    error
}

// NewPropertyService creates a service that loads dir on first use
func NewPropertyService(dir string, table nlp.BudgetTable, usdToINR float64, logger *slog.Logger) *PropertyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyService{
		dir:      dir,
		table:    table,
		usdToINR: usdToINR,
		logger:   logger.With("component", "property-service"),
	}
}

// NewPropertyServiceFromList serves a fixed listing set
func NewPropertyServiceFromList(properties []model.Property, table nlp.BudgetTable, usdToINR float64) *PropertyService {
	s := NewPropertyService("", table, usdToINR, nil)
	s.once.Do(func() { s.properties = properties })
	return s
}

func (s *PropertyService) load(ctx context.Context) ([]model.Property, error) {
	s.once.Do(func() {
		s.properties, s.loadErr = repository.LoadProperties(ctx, s.dir, s.logger)
		if s.loadErr == nil {
			s.logger.Info("property dataset loaded", "count", len(s.properties), "dir", s.dir)
		}
	})
	return s.properties, s.loadErr
}

// All returns every listing in dataset order
func (s *PropertyService) All(ctx context.Context) ([]model.Property, error) {
	props, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Property, len(props))
	copy(out, props)
	return out, nil
}

// ByID returns the listing with the given id
func (s *PropertyService) ByID(ctx context.Context, id string) (*model.Property, error) {
	props, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	for i := range props {
		if props[i].ID == id {
			p := props[i]
			return &p, nil
		}
	}
	return nil, ErrPropertyNotFound
}

// Cities lists the distinct city names of the dataset (the part of the
// location before the first comma). It is the location catalog loader.
func (s *PropertyService) Cities() ([]string, error) {
	props, err := s.load(context.Background())
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	cities := make([]string, 0)
	for _, p := range props {
		city, _, _ := strings.Cut(p.Location, ",")
		city = strings.ToLower(strings.TrimSpace(city))
		if city == "" {
			continue
		}
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities, nil
}

// BudgetBounds resolves a budget label. Unknown labels report false and apply no filter.
func (s *PropertyService) BudgetBounds(label string) (PriceBounds, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return PriceBounds{}, false
	}
	if r, ok := s.table.Lookup(label); ok {
		return PriceBounds{Min: r.Min, Max: r.Max}, true
	}

	key := strings.NewReplacer(" ", "", "-", "").Replace(strings.ToLower(label))
	for _, lb := range legacyBudgets {
		if strings.Contains(key, lb.key) {
			return PriceBounds{Min: lb.min, Max: lb.max, Inclusive: true, ToINR: s.usdToINR}, true
		}
	}
	s.logger.Debug("unknown budget label, not filtering on price", "budget", label)
	return PriceBounds{}, false
}

// Filter returns the listings matching every set filter, in dataset order
func (s *PropertyService) Filter(ctx context.Context, filters model.BasicFilters) ([]model.Property, error) {
	props, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	filters = filters.Normalize()

	var location string
	if filters.Location != nil {
		location = strings.ToLower(strings.TrimSpace(*filters.Location))
	}
	var bounds *PriceBounds
	if filters.Budget != nil {
		if b, ok := s.BudgetBounds(*filters.Budget); ok {
			bounds = &b
		}
	}
	var bedrooms string
	if filters.Bedrooms != nil {
		bedrooms = strings.TrimSpace(*filters.Bedrooms)
	}

	results := make([]model.Property, 0)
	for _, p := range props {
		if location != "" && !strings.Contains(strings.ToLower(p.Location), location) {
			continue
		}
		if bounds != nil && !bounds.Contains(p) {
			continue
		}
		if bedrooms != "" && strconv.Itoa(p.Bedrooms) != bedrooms {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}
