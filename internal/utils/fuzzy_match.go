package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// amenityAliases maps a canonical search key to the listing spellings it covers
var amenityAliases = map[string][]string{
	"pool":         {"swimming pool", "pool"},
	"gym":          {"gym", "gymnasium", "fitness", "fitness center"},
	"ac":           {"air conditioner", "air conditioning", "aircon", "a/c", "central air"},
	"laundry":      {"washer", "washing machine", "washer/dryer", "laundry", "in-unit laundry"},
	"parking":      {"parking", "car park", "covered parking", "garage"},
	"security":     {"security", "24-hour security", "24x7 security", "gated"},
	"playground":   {"playground", "children's playground", "kids play area"},
	"clubhouse":    {"clubhouse", "club house", "community hall"},
	"balcony":      {"balcony", "terrace", "patio"},
	"garden":       {"garden", "lawn", "backyard", "yard"},
	"lift":         {"lift", "elevator"},
	"power backup": {"power backup", "generator", "inverter"},
	"pets":         {"pet friendly", "pet-friendly", "pets allowed"},
	"furnished":    {"furnished", "semi-furnished", "fully furnished"},
	"view":         {"sea view", "ocean view", "city view", "view"},
}

// searchKeys normalizes a few user spellings onto alias keys
var searchKeys = map[string]string{
	"swimming":   "pool",
	"fitness":    "gym",
	"aircon":     "ac",
	"elevator":   "lift",
	"generator":  "power backup",
	"pet":        "pets",
	"washer":     "laundry",
	"garage":     "parking",
	"terrace":    "balcony",
	"backyard":   "garden",
	"yard":       "garden",
	"club house": "clubhouse",
}

// FuzzyMatchAmenity reports whether a requested amenity matches a listing amenity
func FuzzyMatchAmenity(searchTerm, amenity string) bool {
	searchLower := strings.ToLower(strings.TrimSpace(searchTerm))
	amenityLower := strings.ToLower(strings.TrimSpace(amenity))
	if searchLower == "" || amenityLower == "" {
		return false
	}

	if searchLower == amenityLower || containsWord(amenityLower, searchLower) {
		return true
	}

	for _, key := range amenityKeys(searchLower) {
		for _, alias := range amenityAliases[key] {
			if strings.Contains(amenityLower, alias) {
				return true
			}
		}
	}
	return false
}

// amenityKeys returns the alias keys a search term touches
func amenityKeys(searchLower string) []string {
	var keys []string
	for key := range amenityAliases {
		if containsWord(searchLower, key) {
			keys = append(keys, key)
		}
	}
	for word, key := range searchKeys {
		if containsWord(searchLower, word) {
			keys = append(keys, key)
		}
	}
	return keys
}

// containsWord matches whole words so "ac" does not hit "space"
func containsWord(s, word string) bool {
	for i := strings.Index(s, word); i >= 0; {
		end := i + len(word)
		before := i == 0 || !isLetter(s[i-1])
		after := end == len(s) || !isLetter(s[end])
		if before && after {
			return true
		}
		next := strings.Index(s[i+1:], word)
		if next < 0 {
			break
		}
		i += next + 1
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// NormalizeAmenity maps an amenity to its display form
func NormalizeAmenity(amenity string) string {
	amenityLower := strings.ToLower(strings.TrimSpace(amenity))
	if key, ok := searchKeys[amenityLower]; ok {
		amenityLower = key
	}

	normalizations := map[string]string{
		"pool":         "Swimming pool",
		"gym":          "Gym",
		"ac":           "Air conditioning",
		"laundry":      "Washer/dryer",
		"parking":      "Covered parking",
		"security":     "24-hour security",
		"lift":         "Lift",
		"power backup": "Power backup",
		"pets":         "Pet friendly",
	}
	if normalized, ok := normalizations[amenityLower]; ok {
		return normalized
	}
	return cases.Title(language.English).String(amenityLower)
}
