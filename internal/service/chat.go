package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/metrics"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
)

// Replier generates the conversational reply text
type Replier interface {
	IsEnabled() bool
	Reply(ctx context.Context, prompt string) (string, error)
}

// ChatRequest is one user turn
type ChatRequest struct {
	Message string              `json:"message"`
	Filters *model.BasicFilters `json:"filters"`
}

// ChatResponse is the reply with the listings it refers to
type ChatResponse struct {
	Response   string               `json:"response"`
	Properties []model.PropertyCard `json:"properties"`
	Filters    model.BasicFilters   `json:"filters"`
	Extraction *model.FilterResult  `json:"extraction,omitempty"`
	Summary    string               `json:"summary,omitempty"`
}

// ExtractResponse is the full extraction record for a query
type ExtractResponse struct {
	model.FilterResult
	Summary        string `json:"summary"`
	ShouldEscalate bool   `json:"should_escalate"`
}

// Canned replies used when no model is configured or the model fails
var (
	GreetingResponses = []string{
		"Hello! I'm here to help you find your perfect home! 🏡",
		"Hi there! Let's find you the ideal property today!",
		"Welcome! I'm excited to help you with your property search!",
		"Hey! Ready to discover amazing properties? Let's get started!",
	}
	SearchSuccessResponses = []string{
		"Great news! I found some amazing properties for you!",
		"Perfect! Here are some properties that match your preferences.",
		"Excellent! I've curated the best options for you.",
		"Wonderful! I found some great matches for your search.",
		"Fantastic! Here are properties that fit your criteria perfectly.",
	}
	SearchNoResultsResponses = []string{
		"I couldn't find properties matching those exact criteria. Would you like to try different filters?",
		"No properties found with those specifications. Let me know if you'd like to adjust your search!",
		"Hmm, no matches found. How about trying a different location or budget range?",
		"Unfortunately, I couldn't find properties with those filters. Want to explore other options?",
	}
	HelpfulResponses = []string{
		"I can help you search by location, budget, or number of bedrooms. Just let me know what you're looking for!",
		"Feel free to ask me about properties in Mumbai, Delhi, Bangalore, or Pune. I'm here to help!",
		"You can specify your budget (0-50L, 50L-1Cr, 1Cr-2Cr), location, and bedroom preference.",
		"Tell me what you're looking for and I'll find the perfect property for you!",
	}
)

// GenericResponse is the reply to conversation that is neither a greeting nor a help request
const GenericResponse = "I'm here to help you find your dream property! You can search by location, budget, or number of bedrooms. What are you looking for?"

var searchKeywords = []string{
	"find", "search", "looking", "want", "need", "show", "list",
	"property", "properties", "home", "house", "apartment", "flat",
	"buy", "rent", "bedroom", "bedrooms", "bhk", "location", "budget",
	"price", "mumbai", "delhi", "bangalore", "pune", "hyderabad", "chennai",
}

var (
	greetingWords = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}
	helpWords     = []string{"help", "what can you do", "how", "guide", "assist"}
)

// promptPropertyLimit caps how many listings are described to the model
const promptPropertyLimit = 5

const (
	foundPrompt = `You are Mira, a friendly and helpful AI real estate assistant.

CRITICAL RULES:
1. You can ONLY talk about properties that are provided to you in the properties list below
2. DO NOT make up, invent, or hallucinate any properties that are not in the list
3. DO NOT mention properties that don't exist in the database
4. If a property is not in the provided list, it does NOT exist - do not reference it
5. Keep responses concise (2-3 sentences max)
6. Be conversational, warm, and professional
7. Use emojis sparingly (max 1-2 per response)

You found properties matching the user's search. Acknowledge this naturally and mention that you're showing them the best options.`

	notFoundPrompt = `You are Mira, a friendly and helpful AI real estate assistant.

CRITICAL RULES:
1. NO properties were found matching the user's criteria
2. DO NOT make up or suggest properties that don't exist
3. DO NOT say "I found some properties" or similar - you found ZERO properties
4. Clearly state that no properties match their criteria
5. Suggest they try different filters (location, budget, bedrooms)
6. Be helpful and encouraging, but honest about the lack of results
7. Keep responses concise (2-3 sentences max)
8. Use emojis sparingly

The user searched for properties but NO matches were found in the database.`

	conversationPrompt = `You are Mira, a friendly and helpful AI real estate assistant.
Your role is to help users find their dream properties. Be conversational, warm, and professional.
Keep responses concise (2-3 sentences max) and natural. Use emojis sparingly.

Engage in natural conversation. If the user is asking about properties, help them. If they're just chatting, be friendly and helpful.
Always be encouraging and ready to help with property searches.`
)

// ChatService answers chat turns with listings from the dataset
type ChatService struct {
	extractor  *nlp.HybridExtractor
	properties *PropertyService
	ranker     *Ranker
	replier    Replier
	maxCards   int
	logger     *slog.Logger
	pick       func(n int) int
}

// NewChatService creates a chat service. replier may be nil.
func NewChatService(
	extractor *nlp.HybridExtractor,
	properties *PropertyService,
	ranker *Ranker,
	replier Replier,
	maxCards int,
	logger *slog.Logger,
) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxCards <= 0 {
		maxCards = 6
	}
	return &ChatService{
		extractor:  extractor,
		properties: properties,
		ranker:     ranker,
		replier:    replier,
		maxCards:   maxCards,
		logger:     logger.With("component", "chat-service"),
		pick:       rand.IntN,
	}
}

// Extract runs the hybrid pipeline and reports whether escalation is advised
func (s *ChatService) Extract(ctx context.Context, text string) ExtractResponse {
	result, rules := s.extractor.ExtractWithRules(ctx, text, s.extractor.LLMAvailable())
	advised := nlp.ShouldEscalate(text, rules)

	metrics.RecordExtraction(string(result.ExtractionMethod))
	metrics.RecordEscalationAdvice(advised)
	s.logger.Debug("filters extracted",
		"method", result.ExtractionMethod,
		"fields", result.FieldsFound(),
		"should_escalate", advised,
	)

	return ExtractResponse{
		FilterResult:   result,
		Summary:        nlp.Summary(result),
		ShouldEscalate: advised,
	}
}

// HandleMessage answers one chat turn. Explicit filters skip extraction.
func (s *ChatService) HandleMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	msg := strings.TrimSpace(req.Message)
	resp := &ChatResponse{Properties: []model.PropertyCard{}}

	var filters model.BasicFilters
	if req.Filters != nil {
		filters = req.Filters.Normalize()
	}
	if filters.IsEmpty() && msg != "" {
		extracted := s.Extract(ctx, msg)
		filters = extracted.Basic()
		resp.Extraction = &extracted.FilterResult
		resp.Summary = extracted.Summary
	}
	resp.Filters = filters

	isSearch := isPropertySearch(msg, filters, resp.Extraction)

	var ranked []model.RankedProperty
	if isSearch {
		props, err := s.properties.Filter(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("filter properties: %w", err)
		}
		q := RankQuery{Filters: filters}
		if filters.Budget != nil {
			if b, ok := s.properties.BudgetBounds(*filters.Budget); ok {
				q.Bounds = &b
			}
		}
		if resp.Extraction != nil {
			q.Amenities = wantedAmenities(*resp.Extraction)
		}
		ranked = s.ranker.Rank(props, q)
	}

	resp.Response = s.reply(ctx, msg, filters, ranked, isSearch)

	for i, r := range ranked {
		if i == s.maxCards {
			break
		}
		resp.Properties = append(resp.Properties, toCard(r.Property))
	}

	s.logger.Info("chat message handled",
		"search", isSearch,
		"matches", len(ranked),
		"cards", len(resp.Properties),
	)
	return resp, nil
}

// reply prefers the model and falls back to canned text
func (s *ChatService) reply(ctx context.Context, msg string, filters model.BasicFilters, ranked []model.RankedProperty, isSearch bool) string {
	if s.replier != nil && s.replier.IsEnabled() {
		text, err := s.replier.Reply(ctx, buildReplyPrompt(msg, filters, ranked, isSearch))
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		s.logger.Warn("model reply unavailable, using canned response", "error", err)
	}
	return s.fallbackReply(msg, filters, len(ranked), isSearch)
}

func (s *ChatService) fallbackReply(msg string, filters model.BasicFilters, matches int, isSearch bool) string {
	lower := strings.ToLower(msg)
	if !isSearch {
		switch {
		case containsPhrase(lower, greetingWords):
			return s.random(GreetingResponses)
		case containsPhrase(lower, helpWords):
			return s.random(HelpfulResponses)
		default:
			return GenericResponse
		}
	}

	if matches == 0 {
		return s.random(SearchNoResultsResponses)
	}

	reply := s.random(SearchSuccessResponses)
	details := make([]string, 0, 3)
	if filters.Location != nil {
		details = append(details, "in "+*filters.Location)
	}
	if filters.Bedrooms != nil {
		if n, err := strconv.Atoi(*filters.Bedrooms); err == nil {
			plural := ""
			if n > 1 {
				plural = "s"
			}
			details = append(details, fmt.Sprintf("with %d bedroom%s", n, plural))
		} else {
			details = append(details, fmt.Sprintf("with %s bedroom(s)", *filters.Bedrooms))
		}
	}
	if filters.Budget != nil {
		details = append(details, "within your budget of "+*filters.Budget)
	}
	if len(details) > 0 {
		reply += " " + strings.Join(details, " ") + "."
	}
	return reply
}

func (s *ChatService) random(options []string) string {
	return options[s.pick(len(options))]
}

// isPropertySearch reports whether the turn should query the dataset
func isPropertySearch(msg string, filters model.BasicFilters, extraction *model.FilterResult) bool {
	if !filters.IsEmpty() {
		return true
	}
	if extraction != nil && extraction.Intent != nil && *extraction.Intent == model.IntentPropertySearch {
		return true
	}
	lower := strings.ToLower(msg)
	for _, kw := range searchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// containsPhrase matches single words against whole tokens and phrases as substrings, so "hi" does not fire on "this"
func containsPhrase(lower string, phrases []string) bool {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})
	for _, p := range phrases {
		if strings.Contains(p, " ") {
			if strings.Contains(lower, p) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == p {
				return true
			}
		}
	}
	return false
}

// wantedAmenities gathers the amenities the ranker should reward
func wantedAmenities(r model.FilterResult) []string {
	out := append([]string{}, r.Amenities...)
	if r.Preferences != nil {
		out = append(out, r.Preferences.MustHaves...)
		out = append(out, r.Preferences.NiceToHaves...)
	}
	return out
}

func buildReplyPrompt(msg string, filters model.BasicFilters, ranked []model.RankedProperty, isSearch bool) string {
	var b strings.Builder
	switch {
	case !isSearch:
		b.WriteString(conversationPrompt)
	case len(ranked) > 0:
		b.WriteString(foundPrompt)
	default:
		b.WriteString(notFoundPrompt)
	}
	b.WriteString("\n")

	if isSearch {
		if !filters.IsEmpty() {
			b.WriteString("\nUser search preferences:\n")
			if filters.Location != nil {
				fmt.Fprintf(&b, "- Location: %s\n", *filters.Location)
			}
			if filters.Budget != nil {
				fmt.Fprintf(&b, "- Budget: %s\n", *filters.Budget)
			}
			if filters.Bedrooms != nil {
				fmt.Fprintf(&b, "- Bedrooms: %s\n", *filters.Bedrooms)
			}
		}

		if len(ranked) > 0 {
			fmt.Fprintf(&b, "\n\nACTUAL PROPERTIES FOUND IN DATABASE (%d total):\n", len(ranked))
			for i, r := range ranked {
				if i == promptPropertyLimit {
					break
				}
				fmt.Fprintf(&b, "%d. %s in %s - %s (%d bedrooms)\n",
					i+1, r.Title, r.Location, FormatPrice(r.Price, r.Location), r.Bedrooms)
			}
			b.WriteString("\nIMPORTANT: You can ONLY reference these properties. Do not mention any other properties.")
		} else {
			b.WriteString("\n\nNO PROPERTIES FOUND: The database search returned ZERO results. Do not suggest or mention any properties.")
		}
	}

	fmt.Fprintf(&b, "\n\nUser message: %s\n\nGenerate a natural, conversational response (2-3 sentences max) that strictly adheres to the rules above:", msg)
	return b.String()
}

var numberPrinter = message.NewPrinter(language.English)

// FormatPrice renders a price in the listing's currency: lakh/crore rupees for
// Indian cities, dollars otherwise
func FormatPrice(price float64, location string) string {
	if IsIndianCity(location) {
		switch {
		case price >= 1e7:
			return fmt.Sprintf("₹%.1fCr", price/1e7)
		case price >= 1e5:
			return fmt.Sprintf("₹%.1fL", price/1e5)
		default:
			return "₹" + numberPrinter.Sprintf("%d", int64(math.Round(price)))
		}
	}
	return "$" + numberPrinter.Sprintf("%d", int64(math.Round(price)))
}

func toCard(p model.Property) model.PropertyCard {
	title := p.Title
	if title == "" {
		title = "Property"
	}
	location := p.Location
	if location == "" {
		location = "Unknown"
	}
	return model.PropertyCard{
		ID:       p.ID,
		Title:    title,
		Price:    FormatPrice(p.Price, p.Location),
		Location: location,
		Bedrooms: p.Bedrooms,
		Image:    p.ImageURL,
	}
}
