package model

// Intent is the classified purpose of a user message
type Intent string

// Closed intent taxonomy
const (
	IntentPropertySearch Intent = "property_search"
	IntentGeneralInquiry Intent = "general_inquiry"
	IntentGreeting       Intent = "greeting"
	IntentSaveProperty   Intent = "save_property"
	IntentViewSaved      Intent = "view_saved"
	IntentSmalltalk      Intent = "smalltalk"
	IntentComplaint      Intent = "complaint"
	IntentUnclear        Intent = "unclear"
)

var knownIntents = map[Intent]struct{}{
	IntentPropertySearch: {},
	IntentGeneralInquiry: {},
	IntentGreeting:       {},
	IntentSaveProperty:   {},
	IntentViewSaved:      {},
	IntentSmalltalk:      {},
	IntentComplaint:      {},
	IntentUnclear:        {},
}

// Valid reports whether i belongs to the closed taxonomy
func (i Intent) Valid() bool {
	_, ok := knownIntents[i]
	return ok
}

// WantsPreferences reports whether preference extraction applies to this intent
func (i Intent) WantsPreferences() bool {
	return i == IntentPropertySearch || i == IntentGeneralInquiry
}

// IntentResult is the outcome of intent classification
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// NeutralIntent is returned whenever classification is unavailable or fails
func NeutralIntent() IntentResult {
	return IntentResult{Intent: IntentUnclear, Confidence: 0}
}

// EntityResult is the partial record produced by LLM entity extraction.
// Every field is optional.
type EntityResult struct {
	Location     *string  `json:"location,omitempty"`
	Budget       *string  `json:"budget,omitempty"`
	Bedrooms     *string  `json:"bedrooms,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	Urgency      *string  `json:"urgency,omitempty"`
}

// IsEmpty reports whether nothing was extracted
func (e EntityResult) IsEmpty() bool {
	return e.Location == nil && e.Budget == nil && e.Bedrooms == nil &&
		e.PropertyType == nil && len(e.Amenities) == 0 && e.Urgency == nil
}

// Preferences holds detailed preferences beyond the basic filters
type Preferences struct {
	Style        *string   `json:"style,omitempty"`
	MoveInDate   *string   `json:"move_in_date,omitempty"`
	MustHaves    []string  `json:"must_haves,omitempty"`
	NiceToHaves  []string  `json:"nice_to_haves,omitempty"`
	DealBreakers []string  `json:"deal_breakers,omitempty"`
	FamilySize   *string   `json:"family_size,omitempty"`
	WorkFromHome *FlexBool `json:"work_from_home,omitempty"`
	Pets         *FlexBool `json:"pets,omitempty"`
}

// IsEmpty reports whether no preference was captured
func (p Preferences) IsEmpty() bool {
	return p.Style == nil && p.MoveInDate == nil && len(p.MustHaves) == 0 &&
		len(p.NiceToHaves) == 0 && len(p.DealBreakers) == 0 && p.FamilySize == nil &&
		(p.WorkFromHome == nil || !p.WorkFromHome.Set) && (p.Pets == nil || !p.Pets.Set)
}
