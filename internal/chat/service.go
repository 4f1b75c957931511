package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/prompt"
)

// PurposeTutorTurn labels completion events produced by tutor turns.
const PurposeTutorTurn = "tutor-turn"

// Service answers submissions using a completion Provider.
type Service struct {
	provider llm.Provider
	notReady error
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each Reply call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithSetupError records why no provider is available, such as a missing
// credential. It is reported by Reply in place of a backend call.
func WithSetupError(err error) Option {
	return func(s *Service) { s.notReady = err }
}

// NewService creates a Service. A nil provider yields a Service whose
// every Reply fails with *ErrNotConfigured.
func NewService(p llm.Provider, opts ...Option) *Service {
	s := &Service{provider: p, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Configured reports whether a completion backend is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Reply composes the instruction for req, forwards it with the bounded
// history window and returns the single reply text.
func (s *Service) Reply(ctx context.Context, req Request) (string, error) {
	lang := req.Language.OrDefault()
	if s.provider == nil {
		return "", &ErrNotConfigured{Language: lang, Err: s.notReady}
	}

	if llm.PurposeFrom(ctx) == "unknown" {
		ctx = llm.WithPurpose(ctx, PurposeTutorTurn)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	llmReq := NewLLMRequest(req)
	start := time.Now()
	resp, err := s.provider.Generate(ctx, llmReq)
	if err != nil {
		s.logger.Warn("tutor reply failed",
			zap.String("mode", string(req.Mode)),
			zap.String("language", string(lang)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("generate reply: %w", err)
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}

	s.logger.Debug("tutor reply",
		zap.String("mode", string(req.Mode)),
		zap.String("model", resp.Model),
		zap.Int("history", len(llmReq.Messages)-1),
		zap.Duration("elapsed", time.Since(start)),
	)
	return reply, nil
}

// NewLLMRequest builds the completion request for a submission: the
// composed instruction, the last HistoryWindow history entries and the new
// user message.
func NewLLMRequest(req Request) llm.Request {
	lang := req.Language.OrDefault()
	messages := append(Window(req.History), llm.Message{Role: llm.RoleUser, Content: req.Message})
	return llm.Request{
		System:      prompt.Compose(req.Mode, lang, req.CurriculumTopic),
		Messages:    messages,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}

// BuildMessages returns the role-tagged context sent for a turn: the
// system instruction, at most HistoryWindow history entries and message.
func BuildMessages(instruction string, history []llm.Message, message string) []llm.Message {
	req := llm.Request{
		System:   instruction,
		Messages: append(Window(history), llm.Message{Role: llm.RoleUser, Content: message}),
	}
	return req.Transcript()
}

// Window returns a copy of the last HistoryWindow user and assistant
// entries of history. Other roles are dropped so the composed instruction
// stays the only directive.
func Window(history []llm.Message) []llm.Message {
	kept := make([]llm.Message, 0, len(history))
	for _, m := range history {
		if m.Role == llm.RoleUser || m.Role == llm.RoleAssistant {
			kept = append(kept, m)
		}
	}
	start := max(len(kept)-HistoryWindow, 0)
	out := make([]llm.Message, len(kept)-start, len(kept)-start+1)
	copy(out, kept[start:])
	return out
}
