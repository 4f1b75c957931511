package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCanedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: "first reply", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: "second reply"},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Content != "first reply" {
		t.Fatalf("expected first reply, got %q", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Content != "second reply" {
		t.Fatalf("expected second reply, got %q", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_Fallback(t *testing.T) {
	mock := &MockProvider{Fallback: "canned"}
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "canned" {
		t.Fatalf("expected fallback content, got %q", resp.Content)
	}
}

func TestRequest_Transcript(t *testing.T) {
	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "a"}, {Role: RoleAssistant, Content: "b"}},
	}
	got := req.Transcript()
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	if got[0].Role != RoleSystem || got[0].Content != "sys" {
		t.Fatalf("expected system message first, got %+v", got[0])
	}
	if got[2].Content != "b" {
		t.Fatalf("expected messages in order, got %+v", got)
	}

	if n := len(Request{Messages: req.Messages}.Transcript()); n != 2 {
		t.Fatalf("expected no system message when System is empty, got %d messages", n)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: "ok"},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "tutor-turn")
	if p := PurposeFrom(ctx); p != "tutor-turn" {
		t.Fatalf("expected 'question-gen', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "xai without key",
			cfg:     Config{Provider: "xai"},
			wantErr: true,
		},
		{
			name:    "xai with key",
			cfg:     Config{Provider: "xai", XAI: XAIConfig{APIKey: "xai-test"}},
			wantErr: false,
		},
		{
			name:    "openrouter without key",
			cfg:     Config{Provider: "openrouter"},
			wantErr: true,
		},
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateMissingKeyIsTyped(t *testing.T) {
	err := Config{Provider: "xai"}.Validate()
	var missing *ErrMissingAPIKey
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingAPIKey, got: %T (%v)", err, err)
	}
	if missing.EnvVar != "XAI_API_KEY" {
		t.Fatalf("expected XAI_API_KEY, got %q", missing.EnvVar)
	}

	err = Config{Provider: "bogus"}.Validate()
	if errors.As(err, &missing) {
		t.Fatal("unknown provider should not be reported as a missing key")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "xai" {
		t.Fatalf("expected xai default provider, got %q", cfg.Provider)
	}
	if cfg.XAI.Model != "grok-3" {
		t.Fatalf("expected grok-3, got %q", cfg.XAI.Model)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Fatalf("expected a single attempt, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestConfigFromEnv_XAIKey(t *testing.T) {
	t.Setenv("BITLIT_XAI_API_KEY", "")
	t.Setenv("XAI_API_KEY", "xai-plain")
	if got := ConfigFromEnv().XAI.APIKey; got != "xai-plain" {
		t.Fatalf("expected XAI_API_KEY to be used, got %q", got)
	}

	t.Setenv("BITLIT_XAI_API_KEY", "xai-prefixed")
	if got := ConfigFromEnv().XAI.APIKey; got != "xai-prefixed" {
		t.Fatalf("expected BITLIT_XAI_API_KEY to win, got %q", got)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"XAI_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("XAI_API_KEY", "xai-test")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "xai" {
		t.Fatalf("expected xai to take priority, got %q (ok=%v)", cfg.Provider, ok)
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "xai"}, nil, nil)
	var missing *ErrMissingAPIKey
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingAPIKey, got: %T (%v)", err, err)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content == "" {
		t.Fatal("expected non-empty mock reply")
	}
}
