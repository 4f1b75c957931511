package llm

import "fmt"

const defaultXAIBaseURL = "https://api.x.ai/v1"

// XAIProvider targets xAI's Grok chat completions endpoint, which speaks
// the OpenAI wire format.
type XAIProvider struct {
	*OpenAIProvider
}

// NewXAIProvider creates a provider targeting the xAI API.
func NewXAIProvider(cfg XAIConfig) (*XAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("xai API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultXAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "grok-3"
	}

	inner, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   model,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}

	return &XAIProvider{OpenAIProvider: inner}, nil
}
