package llm

import (
	"fmt"
	"strings"
)

const entityPromptTemplate = `You are an AI assistant specialized in extracting real estate search parameters from natural language queries.

Extract the following information from the user's message:
1. **location**: City or area name (e.g., "Mumbai", "New York", "San Francisco")
2. **budget**: Budget range or amount (normalize to ranges like %s)
3. **bedrooms**: Number of bedrooms (e.g., "2", "3", "4")
4. **property_type**: Type of property (e.g., "apartment", "house", "villa", "condo")
5. **amenities**: List of desired amenities (e.g., ["parking", "gym", "pool"])
6. **urgency**: How urgent is the search (e.g., "immediate", "1-3 months", "just browsing")

User query: "%s"

Return ONLY a valid JSON object with these fields. Use null for missing information.
Example format:
{
  "location": "Mumbai",
  "budget": "300k-500k",
  "bedrooms": "2",
  "property_type": "apartment",
  "amenities": ["parking", "gym"],
  "urgency": "1-3 months"
}

JSON response:`

const intentPromptTemplate = `You are an AI assistant that classifies user intents in a real estate chatbot context.

Classify the following user message into ONE of these intents:
1. **property_search**: User is searching for properties with specific criteria
2. **general_inquiry**: User is asking general questions about real estate
3. **greeting**: User is greeting or introducing themselves
4. **save_property**: User wants to save/bookmark a property
5. **view_saved**: User wants to see their saved properties
6. **smalltalk**: Casual conversation not related to real estate
7. **complaint**: User is expressing dissatisfaction
8. **unclear**: Message is unclear or ambiguous

User message: "%s"

Return ONLY a valid JSON object with:
- "intent": one of the above intent types
- "confidence": a number between 0.0 and 1.0
- "reasoning": brief explanation (optional)

Example:
{
  "intent": "property_search",
  "confidence": 0.95,
  "reasoning": "User is explicitly looking for 2 bedroom apartments"
}

JSON response:`

const preferencePromptTemplate = `You are an AI assistant extracting detailed real estate preferences from user messages.

Extract the following detailed preferences:
1. **style**: Property style (e.g., "modern", "traditional", "minimalist", "luxury")
2. **move_in_date**: Desired move-in date or timeframe
3. **must_haves**: List of essential features (e.g., ["parking", "balcony", "natural light"])
4. **nice_to_haves**: List of preferred but not essential features
5. **deal_breakers**: Things the user definitely doesn't want
6. **family_size**: Information about household size
7. **work_from_home**: Whether user works from home (true/false)
8. **pets**: Whether user has pets

User message: "%s"

Return ONLY a valid JSON object. Use null for missing information.
Example:
{
  "style": "modern",
  "move_in_date": "immediate",
  "must_haves": ["parking", "gym"],
  "nice_to_haves": ["pool", "garden"],
  "deal_breakers": ["ground floor"],
  "family_size": 4,
  "work_from_home": true,
  "pets": false
}

JSON response:`

// defaultBudgetLabels is used when no bucket table is supplied
var defaultBudgetLabels = []string{"0-50k", "100k-200k", "300k-500k", "500k-750k", "750k-1m", "1m+"}

func entityPrompt(text string, budgetLabels []string) string {
	if len(budgetLabels) == 0 {
		budgetLabels = defaultBudgetLabels
	}
	quoted := make([]string, len(budgetLabels))
	for i, l := range budgetLabels {
		quoted[i] = `"` + l + `"`
	}
	return fmt.Sprintf(entityPromptTemplate, strings.Join(quoted, ", "), scrub(text))
}

func intentPrompt(text string) string {
	return fmt.Sprintf(intentPromptTemplate, scrub(text))
}

func preferencePrompt(text string) string {
	return fmt.Sprintf(preferencePromptTemplate, scrub(text))
}

// scrub keeps the user text from closing the quoted prompt slot
func scrub(text string) string {
	text = strings.ReplaceAll(text, `"`, `'`)
	text = strings.Join(strings.Fields(text), " ")
	return text
}
