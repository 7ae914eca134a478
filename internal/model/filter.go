package model

// ExtractionMethod records which path produced a FilterResult
type ExtractionMethod string

const (
	MethodRuleBased ExtractionMethod = "rule-based"
	MethodHybrid    ExtractionMethod = "hybrid"
)

// FilterResult is the canonical output of query extraction.
// Location, Budget and Bedrooms come from rules first; the remaining fields are
// only ever filled by the LLM path.
type FilterResult struct {
	Location         *string          `json:"location"`
	Budget           *string          `json:"budget"`
	Bedrooms         *string          `json:"bedrooms"`
	PropertyType     *string          `json:"property_type"`
	Amenities        []string         `json:"amenities"`
	Intent           *Intent          `json:"intent"`
	IntentConfidence *float64         `json:"intent_confidence,omitempty"`
	Preferences      *Preferences     `json:"preferences"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
}

// NewFilterResult returns an empty rule-based result
func NewFilterResult() FilterResult {
	return FilterResult{ExtractionMethod: MethodRuleBased}
}

// MarkHybrid upgrades the provenance marker. There is no way back to rule-based.
func (r *FilterResult) MarkHybrid() {
	r.ExtractionMethod = MethodHybrid
}

// FieldsFound counts the non-absent basic fields
func (r FilterResult) FieldsFound() int {
	n := 0
	for _, v := range []*string{r.Location, r.Budget, r.Bedrooms} {
		if v != nil {
			n++
		}
	}
	return n
}

// Basic narrows the result to the three search filters
func (r FilterResult) Basic() BasicFilters {
	return BasicFilters{Location: r.Location, Budget: r.Budget, Bedrooms: r.Bedrooms}
}

// BasicFilters are the three fields the property filter understands
type BasicFilters struct {
	Location *string `json:"location" form:"location"`
	Budget   *string `json:"budget" form:"budget"`
	Bedrooms *string `json:"bedrooms" form:"bedrooms"`
}

// IsEmpty reports whether no filter is set (blank strings count as unset)
func (f BasicFilters) IsEmpty() bool {
	return blank(f.Location) && blank(f.Budget) && blank(f.Bedrooms)
}

// Normalize turns blank strings into nil
func (f BasicFilters) Normalize() BasicFilters {
	out := f
	if blank(out.Location) {
		out.Location = nil
	}
	if blank(out.Budget) {
		out.Budget = nil
	}
	if blank(out.Bedrooms) {
		out.Bedrooms = nil
	}
	return out
}

func blank(s *string) bool {
	return s == nil || *s == ""
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
