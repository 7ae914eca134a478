package nlp

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// BudgetRange is one half-open bucket [Min, Max)
type BudgetRange struct {
	Min   float64
	Max   float64
	Label string
}

// BudgetTable is an ordered bucket list covering [0, +Inf) without gaps
type BudgetTable []BudgetRange

// Validate enforces contiguity: starts at 0, each Max equals the next Min, ends at +Inf.
func (t BudgetTable) Validate() error {
	if len(t) == 0 {
		return errors.New("table is empty")
	}
	if t[0].Min != 0 {
		return fmt.Errorf("first bucket %q must start at 0", t[0].Label)
	}
	seen := make(map[string]struct{}, len(t))
	for i, r := range t {
		if r.Label == "" {
			return fmt.Errorf("bucket %d has no label", i)
		}
		if _, dup := seen[r.Label]; dup {
			return fmt.Errorf("duplicate label %q", r.Label)
		}
		seen[r.Label] = struct{}{}
		if !(r.Min < r.Max) {
			return fmt.Errorf("bucket %q: min %v must be below max %v", r.Label, r.Min, r.Max)
		}
		if i > 0 && t[i-1].Max != r.Min {
			return fmt.Errorf("gap or overlap between %q and %q", t[i-1].Label, r.Label)
		}
	}
	if last := t[len(t)-1]; !math.IsInf(last.Max, 1) {
		return fmt.Errorf("last bucket %q must be unbounded", last.Label)
	}
	return nil
}

// Bucket returns the label of the first bucket containing v.
// Values past every bound land in the last bucket.
func (t BudgetTable) Bucket(v float64) string {
	for _, r := range t {
		if v >= r.Min && v < r.Max {
			return r.Label
		}
	}
	return t[len(t)-1].Label
}

// Lookup returns the bucket with the given label (case-insensitive)
func (t BudgetTable) Lookup(label string) (BudgetRange, bool) {
	for _, r := range t {
		if strings.EqualFold(r.Label, strings.TrimSpace(label)) {
			return r, true
		}
	}
	return BudgetRange{}, false
}

// Labels lists the bucket labels in table order
func (t BudgetTable) Labels() []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.Label
	}
	return out
}

const numberExpr = `(\d[\d,]*(?:\.\d+)?)`

// moneyMarker is a currency symbol or budget keyword inside a matched span
var moneyMarker = regexp.MustCompile(`₹|\$|\brs\b|\binr\b|\busd\b|budget|price|cost`)

// nextWordExpr captures the word right after a matched span
var nextWordExpr = regexp.MustCompile(`^[\s-]*([a-z]+)`)

// countNouns follow plain numbers that count or measure something other than money
var countNouns = map[string]struct{}{
	"bhk": {}, "bed": {}, "beds": {}, "bedroom": {}, "bedrooms": {}, "br": {},
	"bath": {}, "baths": {}, "bathroom": {}, "bathrooms": {},
	"room": {}, "rooms": {}, "floor": {}, "floors": {}, "storey": {}, "storeys": {},
	"km": {}, "kms": {}, "mi": {}, "mile": {}, "miles": {}, "meter": {}, "meters": {}, "metre": {}, "metres": {},
	"min": {}, "mins": {}, "minute": {}, "minutes": {}, "hr": {}, "hrs": {}, "hour": {}, "hours": {},
	"sqft": {}, "sq": {}, "ft": {}, "feet": {}, "acre": {}, "acres": {},
	"year": {}, "years": {}, "yr": {}, "yrs": {}, "month": {}, "months": {},
	"car": {}, "cars": {}, "people": {}, "person": {}, "persons": {}, "kids": {}, "children": {},
}

// distanceWords follow "m" when it means meters rather than million
var distanceWords = map[string]struct{}{
	"from": {}, "away": {}, "off": {}, "to": {}, "of": {}, "walk": {}, "walking": {},
	"distance": {}, "radius": {}, "near": {}, "close": {},
}

// BudgetNormalizer maps currency expressions onto a budget bucket label
type BudgetNormalizer struct {
	table       BudgetTable
	multipliers map[string]float64
	phrases     []*regexp.Regexp
	bare        []*regexp.Regexp
	leading     *regexp.Regexp
	units       *regexp.Regexp
}

// NewBudgetNormalizer compiles the phrase patterns for the configured unit table
func NewBudgetNormalizer(table BudgetTable, multipliers map[string]float64) (*BudgetNormalizer, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	lowered := make(map[string]float64, len(multipliers))
	units := make([]string, 0, len(multipliers))
	for u, m := range multipliers {
		u = strings.ToLower(strings.TrimSpace(u))
		lowered[u] = m
		units = append(units, u)
	}
	// longest first so "lakh" wins over "l"
	sort.Slice(units, func(i, j int) bool {
		if len(units[i]) != len(units[j]) {
			return len(units[i]) > len(units[j])
		}
		return units[i] < units[j]
	})
	alts := make([]string, 0, len(units))
	for _, u := range units {
		q := regexp.QuoteMeta(u)
		if len(u) > 2 {
			q += "s?"
		}
		alts = append(alts, q)
	}
	if len(alts) == 0 {
		return nil, errors.New("currency multiplier table is empty")
	}
	unitAlts := strings.Join(alts, "|")
	unit := "(?:" + unitAlts + ")"
	symbol := `(?:₹|\$|rs\.?|inr|usd)?\s*`
	amount := symbol + numberExpr + `\s*` + unit + `?\b`

	n := &BudgetNormalizer{table: table, multipliers: lowered}
	n.phrases = []*regexp.Regexp{
		regexp.MustCompile(`(?:under|below|up\s*to|upto|less\s+than|within|not\s+more\s+than|maximum|max)\s*` + amount),
		regexp.MustCompile(amount + `\s*(?:to|-)\s*` + amount),
		regexp.MustCompile(amount + `\s*(?:budget|price|cost)`),
	}
	n.bare = []*regexp.Regexp{
		regexp.MustCompile(`(?:₹|\$|rs\.?)\s*` + numberExpr + `\s*` + unit + `?\b`),
		regexp.MustCompile(numberExpr + `\s*` + unit + `\b`),
	}
	n.leading = regexp.MustCompile(numberExpr + `\s*(` + unitAlts + `)?\b`)
	n.units = regexp.MustCompile(numberExpr + `\s*(` + unitAlts + `)\b`)
	return n, nil
}

// Extract returns the bucket label for the first budget expression in text
func (n *BudgetNormalizer) Extract(text string) (string, bool) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return "", false
	}

	for _, stage := range [][]*regexp.Regexp{n.phrases, n.bare} {
		for _, re := range stage {
			for _, loc := range re.FindAllStringIndex(lower, -1) {
				if !n.isMoney(lower, loc) {
					continue
				}
				if v, ok := n.normalizeSpan(lower[loc[0]:loc[1]]); ok {
					return n.table.Bucket(v), true
				}
			}
		}
	}
	return "", false
}

// isMoney rejects spans that count or measure something else: a plain number
// followed by "bhk" or "km", or "m" used as meters ("5 m from the beach").
func (n *BudgetNormalizer) isMoney(text string, loc []int) bool {
	span := text[loc[0]:loc[1]]
	if moneyMarker.MatchString(span) {
		return true
	}
	next := ""
	if m := nextWordExpr.FindStringSubmatch(text[loc[1]:]); m != nil {
		next = m[1]
	}

	meters := false
	for _, u := range n.units.FindAllStringSubmatch(span, -1) {
		if u[2] != "m" {
			return true
		}
		meters = true
	}
	if meters {
		_, distance := distanceWords[next]
		_, counted := countNouns[next]
		return !distance && !counted
	}
	_, counted := countNouns[next]
	return !counted
}

// Label validates a label produced elsewhere (e.g. by a model). Known labels pass
// through in table casing; anything else is normalized as free text.
func (n *BudgetNormalizer) Label(raw string) (string, bool) {
	if r, ok := n.table.Lookup(raw); ok {
		return r.Label, true
	}
	return n.Extract(raw)
}

// Table exposes the bucket table
func (n *BudgetNormalizer) Table() BudgetTable {
	return n.table
}

// normalizeSpan converts only the first numeric literal of span, together with the
// unit that directly follows it. In "50 to 75 lakhs" the second bound is ignored.
func (n *BudgetNormalizer) normalizeSpan(span string) (float64, bool) {
	m := n.leading.FindStringSubmatch(span)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if len(m) > 2 && m[2] != "" {
		v *= n.multiplier(m[2])
	}
	return v, true
}

func (n *BudgetNormalizer) multiplier(unit string) float64 {
	if m, ok := n.multipliers[unit]; ok {
		return m
	}
	if m, ok := n.multipliers[strings.TrimSuffix(unit, "s")]; ok {
		return m
	}
	return 1
}
