package nlp

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// CityLoader returns the city names known to the dataset
type CityLoader func() ([]string, error)

// LocationCatalog is the set of lowercase city names the matcher resolves against.
// It is loaded once on first use and kept for the lifetime of the value.
type LocationCatalog struct {
	load     CityLoader
	fallback []string
	logger   *slog.Logger

	once   sync.Once
	cities []string
}

// NewLocationCatalog creates a catalog backed by load. When load fails or returns
// nothing, fallback is used instead.
func NewLocationCatalog(load CityLoader, fallback []string, logger *slog.Logger) *LocationCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationCatalog{
		load:     load,
		fallback: fallback,
		logger:   logger.With("component", "location-catalog"),
	}
}

// StaticCatalog returns a catalog over a fixed list
func StaticCatalog(cities ...string) *LocationCatalog {
	return NewLocationCatalog(nil, cities, nil)
}

// Cities returns the catalog, longest names first and alphabetical within a length.
// Substring lookups therefore prefer "new delhi" over "delhi".
func (c *LocationCatalog) Cities() []string {
	c.once.Do(func() {
		var names []string
		if c.load != nil {
			loaded, err := c.load()
			switch {
			case err != nil:
				c.logger.Warn("city catalog load failed, using fallback list", "err", err)
			case len(loaded) == 0:
				c.logger.Warn("dataset has no locations, using fallback list")
			default:
				names = loaded
			}
		}
		if len(names) == 0 {
			names = c.fallback
		}
		c.cities = normalizeCities(names)
		c.logger.Debug("city catalog ready", "cities", len(c.cities))
	})
	return c.cities
}

func normalizeCities(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.Join(strings.Fields(n), " "))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
