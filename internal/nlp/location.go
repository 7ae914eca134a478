package nlp

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const tokenPunctuation = ".,!?;:'\"()[]{}"

// LocationMatcher resolves free text to a catalog city
type LocationMatcher struct {
	catalog       *LocationCatalog
	threshold     float64
	minWordLength int
}

// NewLocationMatcher creates a matcher over catalog
func NewLocationMatcher(catalog *LocationCatalog, threshold float64, minWordLength int) *LocationMatcher {
	return &LocationMatcher{
		catalog:       catalog,
		threshold:     threshold,
		minWordLength: minWordLength,
	}
}

// Match returns the title-cased city and a confidence score.
// An exact substring hit scores 1.0; otherwise the best fuzzy token or bigram match
// is returned when it reaches the threshold.
func (m *LocationMatcher) Match(text string) (string, float64, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return "", 0, false
	}
	cities := m.catalog.Cities()
	if len(cities) == 0 {
		return "", 0, false
	}

	for _, city := range cities {
		if strings.Contains(lower, city) {
			return TitleCase(city), 1.0, true
		}
	}

	tokens := tokenize(lower)
	bestCity, bestScore := "", 0.0
	for _, tok := range tokens {
		if len([]rune(tok)) < m.minWordLength {
			continue
		}
		if city, score := bestMatch(tok, cities); score > bestScore {
			bestCity, bestScore = city, score
		}
	}

	if bestScore < m.threshold {
		for i := 0; i+1 < len(tokens); i++ {
			bigram := tokens[i] + " " + tokens[i+1]
			if city, score := bestMatch(bigram, cities); score > bestScore {
				bestCity, bestScore = city, score
			}
		}
	}

	if bestCity == "" || bestScore < m.threshold {
		return "", 0, false
	}
	return TitleCase(bestCity), bestScore, true
}

func bestMatch(candidate string, cities []string) (string, float64) {
	best, score := "", 0.0
	for _, city := range cities {
		if r := Ratio(candidate, city); r > score {
			best, score = city, r
		}
	}
	return best, score
}

func tokenize(s string) []string {
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, tokenPunctuation); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// TitleCase display-cases a city name ("new york" -> "New York").
// Casers are stateful, so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(s)))
}
