package nlp

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0, 1]:
// twice the number of matched characters over the combined length.
// Comparison is rune-wise.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(splitRunes(a), splitRunes(b))
	return m.Ratio()
}

func splitRunes(s string) []string {
	return strings.Split(s, "")
}
