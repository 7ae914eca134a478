package nlp

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var studioPattern = regexp.MustCompile(`\bstudio\b`)

// BedroomExtractor parses bedroom counts from numeric and spelled-out forms
type BedroomExtractor struct {
	patterns    []*regexp.Regexp
	wordPattern *regexp.Regexp
	numberWords map[string]string
	maxBedrooms int
}

// NewBedroomExtractor compiles the ordered pattern list. Every pattern needs a
// capture group holding the count.
func NewBedroomExtractor(patterns []string, numberWords map[string]string, maxBedrooms int) (*BedroomExtractor, error) {
	e := &BedroomExtractor{
		numberWords: make(map[string]string, len(numberWords)),
		maxBedrooms: maxBedrooms,
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile bedroom pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("bedroom pattern %q has no capture group", p)
		}
		e.patterns = append(e.patterns, re)
	}

	words := make([]string, 0, len(numberWords))
	for w, n := range numberWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		e.numberWords[w] = n
		words = append(words, regexp.QuoteMeta(w))
	}
	if len(words) > 0 {
		sort.Slice(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
		// the number word must sit next to a bedroom noun, one filler word allowed ("three spacious bedrooms")
		e.wordPattern = regexp.MustCompile(`\b(` + strings.Join(words, "|") +
			`)\b[\s-]+(?:[a-z]+[\s-]+)?(?:bhk|bedrooms?|beds?|br)\b`)
	}
	return e, nil
}

// Extract returns the bedroom count as a string within [1, maxBedrooms]
func (e *BedroomExtractor) Extract(text string) (string, bool) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return "", false
	}

	for _, re := range e.patterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if count, ok := e.valid(m[1]); ok {
				return count, true
			}
		}
	}

	if studioPattern.MatchString(lower) {
		return "1", true
	}

	if e.wordPattern != nil {
		for _, m := range e.wordPattern.FindAllStringSubmatch(lower, -1) {
			if count, ok := e.valid(e.numberWords[m[1]]); ok {
				return count, true
			}
		}
	}
	return "", false
}

// Valid reports whether raw is an acceptable bedroom count and returns it normalized
func (e *BedroomExtractor) Valid(raw string) (string, bool) {
	return e.valid(strings.TrimSpace(raw))
}

func (e *BedroomExtractor) valid(raw string) (string, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		// "2.0" from a model
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return "", false
		}
		n = int(f)
	}
	if n < 1 || n > e.maxBedrooms {
		return "", false
	}
	return strconv.Itoa(n), true
}
