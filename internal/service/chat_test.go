package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
)

type stubReplier struct {
	enabled bool
	answer  string
	err     error
	prompts []string
}

func (s *stubReplier) IsEnabled() bool { return s.enabled }

func (s *stubReplier) Reply(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.err
}

func newTestChat(t *testing.T, replier Replier, maxCards int) *ChatService {
	t.Helper()
	catalog := nlp.StaticCatalog("mumbai", "pune", "miami", "austin", "new york", "delhi")
	rules, err := nlp.NewRuleExtractor(nlp.DefaultConfig(), catalog)
	require.NoError(t, err)

	s := NewChatService(
		nlp.NewHybridExtractor(rules, nil, nil),
		newFixtureService(),
		NewRanker(0.6, 0.4),
		replier,
		maxCards,
		nil,
	)
	s.pick = func(int) int { return 0 }
	return s
}

func TestChat_SearchFromMessage(t *testing.T) {
	s := newTestChat(t, nil, 6)

	resp, err := s.HandleMessage(context.Background(), ChatRequest{Message: "Show me 3 bhk in Mumbai"})
	require.NoError(t, err)

	require.Len(t, resp.Properties, 1)
	card := resp.Properties[0]
	assert.Equal(t, "1", card.ID)
	assert.Equal(t, "₹1.2Cr", card.Price)
	assert.Equal(t, 3, card.Bedrooms)
	assert.Equal(t, "https://img.example/1.jpg", card.Image)

	assert.Equal(t, SearchSuccessResponses[0]+" in Mumbai with 3 bedrooms.", resp.Response)
	require.NotNil(t, resp.Extraction)
	assert.Equal(t, model.MethodRuleBased, resp.Extraction.ExtractionMethod)
	assert.Equal(t, "3 bedroom property in Mumbai", resp.Summary)
	assert.Equal(t, "Mumbai", *resp.Filters.Location)
}

func TestChat_ExplicitFiltersSkipExtraction(t *testing.T) {
	s := newTestChat(t, nil, 6)

	resp, err := s.HandleMessage(context.Background(), ChatRequest{
		Filters: &model.BasicFilters{Budget: model.StringPtr("2Cr+"), Location: model.StringPtr("")},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Extraction)
	assert.Empty(t, resp.Summary)
	assert.Nil(t, resp.Filters.Location)
	require.Len(t, resp.Properties, 2)
	assert.Equal(t, "$450,000", resp.Properties[0].Price)
	assert.Equal(t, "₹2.5Cr", resp.Properties[1].Price)
	assert.Equal(t, SearchSuccessResponses[0]+" within your budget of 2Cr+.", resp.Response)
}

func TestChat_NoResults(t *testing.T) {
	s := newTestChat(t, nil, 6)

	resp, err := s.HandleMessage(context.Background(), ChatRequest{Message: "find homes in Delhi"})
	require.NoError(t, err)
	assert.Empty(t, resp.Properties)
	assert.NotNil(t, resp.Properties)
	assert.Equal(t, SearchNoResultsResponses[0], resp.Response)
}

func TestChat_Conversation(t *testing.T) {
	s := newTestChat(t, nil, 6)

	tests := []struct {
		message string
		want    string
	}{
		{"hello there", GreetingResponses[0]},
		{"what can you do", HelpfulResponses[0]},
		{"thanks a lot", GenericResponse},
		{"", GenericResponse},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			resp, err := s.HandleMessage(context.Background(), ChatRequest{Message: tt.message})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Response)
			assert.Empty(t, resp.Properties)
		})
	}
}

func TestChat_CardLimit(t *testing.T) {
	s := newTestChat(t, nil, 2)

	resp, err := s.HandleMessage(context.Background(), ChatRequest{Message: "show me properties"})
	require.NoError(t, err)
	assert.Len(t, resp.Properties, 2)
}

func TestChat_ModelReply(t *testing.T) {
	replier := &stubReplier{enabled: true, answer: "  Here are two homes in Mumbai.  "}
	s := newTestChat(t, replier, 6)

	resp, err := s.HandleMessage(context.Background(), ChatRequest{Message: "3 bhk in Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, "Here are two homes in Mumbai.", resp.Response)

	require.Len(t, replier.prompts, 1)
	prompt := replier.prompts[0]
	assert.Contains(t, prompt, "ACTUAL PROPERTIES FOUND IN DATABASE (1 total)")
	assert.Contains(t, prompt, "1. Sea View Flat in Mumbai, Maharashtra - ₹1.2Cr (3 bedrooms)")
	assert.Contains(t, prompt, "- Location: Mumbai")
	assert.Contains(t, prompt, "User message: 3 bhk in Mumbai")
}

func TestChat_ModelPromptVariants(t *testing.T) {
	replier := &stubReplier{enabled: true, answer: "ok"}
	s := newTestChat(t, replier, 6)
	ctx := context.Background()

	_, err := s.HandleMessage(ctx, ChatRequest{Message: "find homes in Delhi"})
	require.NoError(t, err)
	_, err = s.HandleMessage(ctx, ChatRequest{Message: "hello there"})
	require.NoError(t, err)

	require.Len(t, replier.prompts, 2)
	assert.Contains(t, replier.prompts[0], "NO PROPERTIES FOUND")
	assert.NotContains(t, replier.prompts[1], "CRITICAL RULES")
	assert.NotContains(t, replier.prompts[1], "PROPERTIES FOUND")
}

func TestChat_ModelFailureFallsBack(t *testing.T) {
	for name, replier := range map[string]*stubReplier{
		"error":    {enabled: true, err: errors.New("boom")},
		"empty":    {enabled: true, answer: "   "},
		"disabled": {enabled: false, answer: "unused"},
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestChat(t, replier, 6)
			resp, err := s.HandleMessage(context.Background(), ChatRequest{Message: "hello there"})
			require.NoError(t, err)
			assert.Equal(t, GreetingResponses[0], resp.Response)
		})
	}
}

func TestChat_Extract(t *testing.T) {
	s := newTestChat(t, nil, 6)

	got := s.Extract(context.Background(), "2 bhk in Pune under 50 lakhs")
	require.NotNil(t, got.Location)
	assert.Equal(t, "Pune", *got.Location)
	assert.Equal(t, "1m+", *got.Budget)
	assert.Equal(t, "2", *got.Bedrooms)
	assert.Equal(t, "2 bedroom property in Pune (budget: 1m+)", got.Summary)
	assert.False(t, got.ShouldEscalate)

	vague := s.Extract(context.Background(), "not sure what I want yet")
	assert.True(t, vague.ShouldEscalate)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price    float64
		location string
		want     string
	}{
		{12000000, "Mumbai, Maharashtra", "₹1.2Cr"},
		{4500000, "Pune", "₹45.0L"},
		{45000, "Delhi", "₹45,000"},
		{450000, "Miami, FL", "$450,000"},
		{1234.6, "Austin, TX", "$1,235"},
		{0, "", "$0"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price, tt.location))
		})
	}
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, containsPhrase("hi!", greetingWords))
	assert.False(t, containsPhrase("this one", greetingWords))
	assert.True(t, containsPhrase("well, good morning", greetingWords))
}
