package llm

import (
	"math"
	"strings"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
)

// Raw shapes of the model answers. Field types are lenient because models
// freely swap numbers, strings and booleans.

type rawEntities struct {
	Location     model.FlexString  `json:"location"`
	Budget       model.FlexString  `json:"budget"`
	Bedrooms     model.FlexString  `json:"bedrooms"`
	PropertyType model.FlexString  `json:"property_type"`
	Amenities    model.FlexStrings `json:"amenities"`
	Urgency      model.FlexString  `json:"urgency"`
}

func (r rawEntities) toModel() model.EntityResult {
	return model.EntityResult{
		Location:     optional(r.Location),
		Budget:       optional(r.Budget),
		Bedrooms:     optional(r.Bedrooms),
		PropertyType: optional(r.PropertyType),
		Amenities:    []string(r.Amenities),
		Urgency:      optional(r.Urgency),
	}
}

type rawIntent struct {
	Intent     model.FlexString `json:"intent"`
	Confidence model.FlexFloat  `json:"confidence"`
	Reasoning  model.FlexString `json:"reasoning"`
}

// toModel normalizes unknown intents to unclear and clamps confidence to [0, 1]
func (r rawIntent) toModel() model.IntentResult {
	intent := model.Intent(strings.ToLower(strings.TrimSpace(r.Intent.String())))
	if !intent.Valid() {
		intent = model.IntentUnclear
	}

	confidence := float64(r.Confidence)
	switch {
	case math.IsNaN(confidence) || confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	return model.IntentResult{
		Intent:     intent,
		Confidence: confidence,
		Reasoning:  strings.TrimSpace(r.Reasoning.String()),
	}
}

type rawPreferences struct {
	Style        model.FlexString  `json:"style"`
	MoveInDate   model.FlexString  `json:"move_in_date"`
	MustHaves    model.FlexStrings `json:"must_haves"`
	NiceToHaves  model.FlexStrings `json:"nice_to_haves"`
	DealBreakers model.FlexStrings `json:"deal_breakers"`
	FamilySize   model.FlexString  `json:"family_size"`
	WorkFromHome model.FlexBool    `json:"work_from_home"`
	Pets         model.FlexBool    `json:"pets"`
}

func (r rawPreferences) toModel() model.Preferences {
	return model.Preferences{
		Style:        optional(r.Style),
		MoveInDate:   optional(r.MoveInDate),
		MustHaves:    []string(r.MustHaves),
		NiceToHaves:  []string(r.NiceToHaves),
		DealBreakers: []string(r.DealBreakers),
		FamilySize:   optional(r.FamilySize),
		WorkFromHome: optionalBool(r.WorkFromHome),
		Pets:         optionalBool(r.Pets),
	}
}

// optional maps blank values and literal "null"/"none" placeholders to nil
func optional(s model.FlexString) *string {
	v := strings.TrimSpace(s.String())
	switch strings.ToLower(v) {
	case "", "null", "none", "n/a", "unknown":
		return nil
	}
	return &v
}

func optionalBool(b model.FlexBool) *model.FlexBool {
	if !b.Set {
		return nil
	}
	return &b
}
