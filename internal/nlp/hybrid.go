package nlp

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
)

// LLMExtractor is the model-backed half of the pipeline. Implementations never
// return errors: failures come back as neutral values.
type LLMExtractor interface {
	IsEnabled() bool
	ExtractEntities(ctx context.Context, text string) model.EntityResult
	ClassifyIntent(ctx context.Context, text string) model.IntentResult
	ExtractPreferences(ctx context.Context, text string) model.Preferences
}

// HybridExtractor runs rules first and consults the LLM for what rules miss
type HybridExtractor struct {
	rules  *RuleExtractor
	llm    LLMExtractor
	logger *slog.Logger
}

// NewHybridExtractor wires the rule facade with an optional LLM extractor (nil disables it)
func NewHybridExtractor(rules *RuleExtractor, llm LLMExtractor, logger *slog.Logger) *HybridExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridExtractor{
		rules:  rules,
		llm:    llm,
		logger: logger.With("component", "hybrid-extractor"),
	}
}

// Rules returns the underlying rule facade
func (h *HybridExtractor) Rules() *RuleExtractor {
	return h.rules
}

// LLMAvailable reports whether the model path can run
func (h *HybridExtractor) LLMAvailable() bool {
	return h.llm != nil && h.llm.IsEnabled()
}

// Extract produces the merged filter record for text.
// Rule values always win; the LLM only fills what rules left absent.
func (h *HybridExtractor) Extract(ctx context.Context, text string, useLLM bool) model.FilterResult {
	result, _ := h.ExtractWithRules(ctx, text, useLLM)
	return result
}

// ExtractWithRules is Extract that also returns the rule-only result taken before
// any LLM fill, so callers can run ShouldEscalate without a second rule pass.
func (h *HybridExtractor) ExtractWithRules(ctx context.Context, text string, useLLM bool) (result, rules model.FilterResult) {
	result = h.rules.Extract(text)
	rules = result
	found := result.FieldsFound()
	if found > 0 {
		h.logger.Debug("rule-based extraction", "found", found,
			"location", deref(result.Location), "budget", deref(result.Budget), "bedrooms", deref(result.Bedrooms))
	}

	if !useLLM {
		return result, rules
	}
	if !h.LLMAvailable() {
		h.logger.Debug("llm requested but not available, using rule-based only")
		return result, rules
	}

	if found <= 1 {
		h.logger.Debug("enhancing extraction with llm", "found", found)
		h.mergeEntities(&result, h.llm.ExtractEntities(ctx, text))
	}

	intent := h.llm.ClassifyIntent(ctx, text)
	result.Intent = &intent.Intent
	confidence := intent.Confidence
	result.IntentConfidence = &confidence

	if intent.Intent.WantsPreferences() {
		if prefs := h.llm.ExtractPreferences(ctx, text); !prefs.IsEmpty() {
			result.Preferences = &prefs
			result.MarkHybrid()
		}
	}

	h.logger.Debug("extraction complete", "method", result.ExtractionMethod, "intent", intent.Intent)
	return result, rules
}

// mergeEntities fills absent basic fields from the LLM record. Values that would
// break the FilterResult invariants (unknown bucket, out-of-range bedrooms) are dropped.
func (h *HybridExtractor) mergeEntities(result *model.FilterResult, llm model.EntityResult) {
	if result.Location == nil && llm.Location != nil {
		if loc := strings.TrimSpace(*llm.Location); loc != "" {
			result.Location = model.StringPtr(TitleCase(loc))
			result.MarkHybrid()
		}
	}
	if result.Budget == nil && llm.Budget != nil {
		if label, ok := h.rules.Budget().Label(*llm.Budget); ok {
			result.Budget = model.StringPtr(label)
			result.MarkHybrid()
		} else {
			h.logger.Debug("discarding llm budget outside bucket table", "budget", *llm.Budget)
		}
	}
	if result.Bedrooms == nil && llm.Bedrooms != nil {
		if n, ok := h.rules.Bedrooms().Valid(*llm.Bedrooms); ok {
			result.Bedrooms = model.StringPtr(n)
			result.MarkHybrid()
		} else {
			h.logger.Debug("discarding llm bedrooms out of range", "bedrooms", *llm.Bedrooms)
		}
	}
	result.PropertyType = llm.PropertyType
	result.Amenities = llm.Amenities
}

// ExtractFilters is the narrow form used by the property filter
func (h *HybridExtractor) ExtractFilters(ctx context.Context, text string) model.BasicFilters {
	return h.Extract(ctx, text, true).Basic()
}

var uncertaintyMarkers = []string{"maybe", "perhaps", "not sure", "?", "looking for", "need help"}

var preferenceKeywords = []string{
	"must have", "prefer", "need", "require", "would like",
	"important", "essential", "nice to have", "work from home",
	"pets", "family", "kids", "style", "modern", "luxury",
}

// escalationWordLimit is the query length beyond which a query counts as conversational
const escalationWordLimit = 15

// ShouldEscalate is an advisory check on whether a query would benefit from the LLM.
// The orchestrator itself gates entity extraction on the rule field count instead.
func ShouldEscalate(text string, rules model.FilterResult) bool {
	if len(strings.Fields(text)) > escalationWordLimit {
		return true
	}
	lower := strings.ToLower(text)
	if containsAny(lower, uncertaintyMarkers) {
		return true
	}
	if rules.FieldsFound() == 0 {
		return true
	}
	return containsAny(lower, preferenceKeywords)
}

// Summary renders a short description such as "2 bedroom apartment in Pune (budget: 1m+)"
func Summary(r model.FilterResult) string {
	parts := make([]string, 0, 4)
	if r.Bedrooms != nil {
		parts = append(parts, *r.Bedrooms+" bedroom")
	}
	if r.PropertyType != nil && *r.PropertyType != "" {
		parts = append(parts, *r.PropertyType)
	} else {
		parts = append(parts, "property")
	}
	if r.Location != nil {
		parts = append(parts, "in "+*r.Location)
	}
	if r.Budget != nil {
		parts = append(parts, "(budget: "+*r.Budget+")")
	}
	return strings.Join(parts, " ")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
