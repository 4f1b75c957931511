package llm

import "strings"

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter IDs ("anthropic/claude-3-haiku") are priced by their
// upstream model, and friendly names are resolved per provider first.
func LookupCost(modelID string) *ModelCost {
	id := modelID
	if _, after, ok := strings.Cut(id, "/"); ok {
		id = after
	}
	for _, models := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		id = resolveModel(id, models)
	}
	if c, ok := modelCosts[id]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models the tutor providers resolve to, from
// models.dev. Last updated: 2026-02-15.
var modelCosts = map[string]ModelCost{
	// xAI (default provider)
	"grok-3":           {3, 15},
	"grok-3-mini":      {0.3, 0.5},
	"grok-4":           {3, 15},
	"grok-4-fast":      {0.2, 0.5},
	"grok-code-fast-1": {0.2, 1.5},

	// Anthropic
	"claude-3-haiku":            {0.25, 1.25},
	"claude-3-haiku-20240307":   {0.25, 1.25},
	"claude-3-5-haiku-latest":   {0.8, 4},
	"claude-haiku-4-5":          {1, 5},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-sonnet-4-5":         {3, 15},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5-mini":   {0.25, 2},

	// Google
	"gemini-2.0-flash":     {0.1, 0.4},
	"gemini-2.0-flash-exp": {0.1, 0.4},
	"gemini-2.0-pro":       {1.25, 10},
	"gemini-2.5-flash":     {0.3, 2.5},

	// Meta via OpenRouter
	"llama-3-8b": {0.03, 0.06},
}
