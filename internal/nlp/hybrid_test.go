package nlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
)

// stubLLM records calls and returns canned results
type stubLLM struct {
	enabled     bool
	entities    model.EntityResult
	intent      model.IntentResult
	preferences model.Preferences

	entityCalls int
	intentCalls int
	prefCalls   int
}

func (s *stubLLM) IsEnabled() bool { return s.enabled }

func (s *stubLLM) ExtractEntities(ctx context.Context, text string) model.EntityResult {
	s.entityCalls++
	return s.entities
}

func (s *stubLLM) ClassifyIntent(ctx context.Context, text string) model.IntentResult {
	s.intentCalls++
	return s.intent
}

func (s *stubLLM) ExtractPreferences(ctx context.Context, text string) model.Preferences {
	s.prefCalls++
	return s.preferences
}

func newTestHybrid(t *testing.T, llm LLMExtractor) *HybridExtractor {
	t.Helper()
	cfg := DefaultConfig()
	rules, err := NewRuleExtractor(cfg, StaticCatalog(cfg.FallbackCities...))
	require.NoError(t, err)
	return NewHybridExtractor(rules, llm, nil)
}

func TestHybrid_GreetingWithoutLLM(t *testing.T) {
	h := newTestHybrid(t, nil)

	got := h.Extract(context.Background(), "hi", true)
	assert.Equal(t, model.MethodRuleBased, got.ExtractionMethod)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.Budget)
	assert.Nil(t, got.Bedrooms)
	assert.Nil(t, got.Intent)
}

func TestHybrid_RulesCoverEverything(t *testing.T) {
	llm := &stubLLM{
		enabled:  true,
		entities: model.EntityResult{Location: model.StringPtr("Delhi")},
		intent:   model.IntentResult{Intent: model.IntentPropertySearch, Confidence: 0.9},
	}
	h := newTestHybrid(t, llm)

	got := h.Extract(context.Background(), "2 bhk in Mumbai under 50 lakhs", true)
	require.NotNil(t, got.Location)
	require.NotNil(t, got.Budget)
	require.NotNil(t, got.Bedrooms)
	assert.Equal(t, "Mumbai", *got.Location)
	assert.Equal(t, "1m+", *got.Budget)
	assert.Equal(t, "2", *got.Bedrooms)
	assert.Equal(t, model.MethodRuleBased, got.ExtractionMethod)
	assert.Equal(t, 0, llm.entityCalls, "three rule fields skip entity extraction")
	assert.Equal(t, 1, llm.intentCalls)
}

func TestHybrid_RulesOnlyWhenLLMDisabledByCaller(t *testing.T) {
	llm := &stubLLM{enabled: true}
	h := newTestHybrid(t, llm)

	got := h.Extract(context.Background(), "something nice", false)
	assert.Equal(t, model.MethodRuleBased, got.ExtractionMethod)
	assert.Zero(t, llm.entityCalls+llm.intentCalls+llm.prefCalls)
}

func TestHybrid_RulesOnlyWhenLLMUnavailable(t *testing.T) {
	llm := &stubLLM{enabled: false}
	h := newTestHybrid(t, llm)

	got := h.Extract(context.Background(), "something nice", true)
	assert.Equal(t, model.MethodRuleBased, got.ExtractionMethod)
	assert.Zero(t, llm.entityCalls+llm.intentCalls+llm.prefCalls)
}

func TestHybrid_VagueQueryEscalates(t *testing.T) {
	llm := &stubLLM{
		enabled: true,
		entities: model.EntityResult{
			Location:     model.StringPtr("austin"),
			Budget:       model.StringPtr("300k-500k"),
			Bedrooms:     model.StringPtr("3"),
			PropertyType: model.StringPtr("house"),
			Amenities:    []string{"garden"},
		},
		intent: model.IntentResult{Intent: model.IntentPropertySearch, Confidence: 0.8},
	}
	h := newTestHybrid(t, llm)

	got := h.Extract(context.Background(), "something nice for my family, not sure what I want", true)
	assert.Equal(t, 1, llm.entityCalls)
	assert.Equal(t, model.MethodHybrid, got.ExtractionMethod)
	assert.Equal(t, "Austin", *got.Location)
	assert.Equal(t, "300k-500k", *got.Budget)
	assert.Equal(t, "3", *got.Bedrooms)
	assert.Equal(t, "house", *got.PropertyType)
	assert.Equal(t, []string{"garden"}, got.Amenities)
	require.NotNil(t, got.Intent)
	assert.Equal(t, model.IntentPropertySearch, *got.Intent)
	assert.Equal(t, 0.8, *got.IntentConfidence)
	assert.Equal(t, 1, llm.prefCalls)
	assert.Nil(t, got.Preferences, "empty preferences are not attached")
}

func TestHybrid_RuleValuesWin(t *testing.T) {
	llm := &stubLLM{
		enabled:  true,
		entities: model.EntityResult{Location: model.StringPtr("Chennai"), Bedrooms: model.StringPtr("4")},
		intent:   model.IntentResult{Intent: model.IntentSmalltalk, Confidence: 0.4},
	}
	h := newTestHybrid(t, llm)

	got := h.Extract(context.Background(), "anything in Pune", true)
	assert.Equal(t, 1, llm.entityCalls)
	assert.Equal(t, "Pune", *got.Location)
	assert.Equal(t, "4", *got.Bedrooms)
	assert.Equal(t, model.MethodHybrid, got.ExtractionMethod)
	assert.Zero(t, llm.prefCalls, "smalltalk does not ask for preferences")
}

func TestHybrid_InvalidLLMValuesDropped(t *testing.T) {
	llm := &stubLLM{
		enabled: true,
		entities: model.EntityResult{
			Budget:   model.StringPtr("affordable"),
			Bedrooms: model.StringPtr("42"),
		},
		intent: model.NeutralIntent(),
	}
	h := newTestHybrid(t, llm)

	got := h.Extract(context.Background(), "hello", true)
	assert.Nil(t, got.Budget)
	assert.Nil(t, got.Bedrooms)
	assert.Equal(t, model.MethodRuleBased, got.ExtractionMethod)
	require.NotNil(t, got.Intent)
	assert.Equal(t, model.IntentUnclear, *got.Intent)
}

func TestHybrid_PreferencesUpgradeMethod(t *testing.T) {
	style := "modern"
	llm := &stubLLM{
		enabled:     true,
		intent:      model.IntentResult{Intent: model.IntentGeneralInquiry, Confidence: 0.7},
		preferences: model.Preferences{Style: &style, MustHaves: []string{"parking"}},
	}
	h := newTestHybrid(t, llm)

	got := h.Extract(context.Background(), "2 bhk in Pune under 1 crore", true)
	assert.Zero(t, llm.entityCalls)
	require.NotNil(t, got.Preferences)
	assert.Equal(t, "modern", *got.Preferences.Style)
	assert.Equal(t, model.MethodHybrid, got.ExtractionMethod)
}

func TestHybrid_ExtractFilters(t *testing.T) {
	h := newTestHybrid(t, nil)

	got := h.ExtractFilters(context.Background(), "3 bhk in Seattle around $250k")
	assert.Equal(t, "Seattle", *got.Location)
	assert.Equal(t, "200k-300k", *got.Budget)
	assert.Equal(t, "3", *got.Bedrooms)
}

func TestShouldEscalate(t *testing.T) {
	full := model.FilterResult{
		Location: model.StringPtr("Pune"),
		Budget:   model.StringPtr("1m+"),
		Bedrooms: model.StringPtr("2"),
	}

	tests := []struct {
		name  string
		text  string
		rules model.FilterResult
		want  bool
	}{
		{name: "short and complete", text: "2 bhk in Pune under 1 crore", rules: full, want: false},
		{name: "long query", text: "we are a couple with a toddler and a cat who want something quiet close to a park and a school", rules: full, want: true},
		{name: "question mark", text: "2 bhk in Pune?", rules: full, want: true},
		{name: "uncertainty", text: "maybe 2 bhk in Pune", rules: full, want: true},
		{name: "nothing found", text: "hello", rules: model.FilterResult{}, want: true},
		{name: "preference keyword", text: "modern 2 bhk in Pune", rules: full, want: true},
		{name: "one field no markers", text: "flats in Pune", rules: model.FilterResult{Location: model.StringPtr("Pune")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldEscalate(tt.text, tt.rules))
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "property", Summary(model.FilterResult{}))
	assert.Equal(t, "2 bedroom apartment in Pune (budget: 1m+)", Summary(model.FilterResult{
		Bedrooms:     model.StringPtr("2"),
		PropertyType: model.StringPtr("apartment"),
		Location:     model.StringPtr("Pune"),
		Budget:       model.StringPtr("1m+"),
	}))
	assert.Equal(t, "property in Miami", Summary(model.FilterResult{Location: model.StringPtr("Miami")}))
}

func TestHybrid_ExtractWithRulesKeepsRuleSnapshot(t *testing.T) {
	llm := &stubLLM{
		enabled:  true,
		entities: model.EntityResult{Budget: model.StringPtr("300k-500k"), Bedrooms: model.StringPtr("2")},
		intent:   model.IntentResult{Intent: model.IntentPropertySearch, Confidence: 0.9},
	}
	h := newTestHybrid(t, llm)

	got, rules := h.ExtractWithRules(context.Background(), "a flat in Pune", true)
	assert.Equal(t, model.MethodHybrid, got.ExtractionMethod)
	require.NotNil(t, got.Budget)
	assert.Equal(t, "300k-500k", *got.Budget)

	assert.Equal(t, model.MethodRuleBased, rules.ExtractionMethod)
	require.NotNil(t, rules.Location)
	assert.Equal(t, "Pune", *rules.Location)
	assert.Nil(t, rules.Budget)
	assert.Nil(t, rules.Bedrooms)
	assert.Nil(t, rules.Intent)
	assert.Equal(t, h.Rules().Extract("a flat in Pune"), rules)
}

func TestRules_CountsAreNotBudgets(t *testing.T) {
	h := newTestHybrid(t, nil)

	got := h.Rules().Extract("2-3 bhk in Pune")
	require.NotNil(t, got.Location)
	assert.Equal(t, "Pune", *got.Location)
	assert.Nil(t, got.Budget)

	got = h.Rules().Extract("3 bhk within 2 km of the station in Pune under 80k")
	require.NotNil(t, got.Budget)
	assert.Equal(t, "50k-100k", *got.Budget)
	require.NotNil(t, got.Bedrooms)
	assert.Equal(t, "3", *got.Bedrooms)
}
