// Package tutor manages a learner's AI tutoring dialogue: the active mode,
// curriculum cursor, conversation history and the single turn in flight.
package tutor

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/chat"
	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/progress"
	"github.com/abhisek/bitlit/internal/prompt"
)

// TurnXP is awarded for every successfully answered turn.
const TurnXP = 5

// Validation errors. SubmitTurn leaves the session untouched when it
// returns one of these.
var (
	ErrEmptyInput   = errors.New("tutor: empty input")
	ErrTurnInFlight = errors.New("tutor: a turn is already in flight")
)

// Transport delivers a submission and returns exactly one reply.
type Transport interface {
	Send(ctx context.Context, req chat.Request) (string, error)
}

// TurnResult describes how a submitted turn ended. A failed turn still
// appends an assistant message carrying the localized error text.
type TurnResult struct {
	Reply     string `json:"reply"`
	Failed    bool   `json:"failed"`
	XPAwarded int    `json:"xpAwarded"`
	Err       error  `json:"-"`
}

// State is a point-in-time copy of the session.
type State struct {
	ID         string        `json:"id"`
	Mode       prompt.Mode   `json:"mode"`
	Language   i18n.Language `json:"language"`
	Topic      int           `json:"topic"`
	TopicLabel string        `json:"topicLabel"`
	History    []llm.Message `json:"history"`
	InFlight   bool          `json:"inFlight"`
}

// Session is one learner's tutoring dialogue. All methods are safe for
// concurrent use; only SubmitTurn blocks, and it does not hold the lock
// while awaiting the transport.
type Session struct {
	id        string
	ledger    *progress.Ledger
	transport Transport
	logger    *zap.Logger

	mu       sync.Mutex
	mode     prompt.Mode
	lang     i18n.Language
	topic    int
	history  []llm.Message
	inFlight bool
}

// Option configures a Session.
type Option func(*Session)

// WithLanguage sets the initial language.
func WithLanguage(lang i18n.Language) Option {
	return func(s *Session) { s.lang = lang }
}

// WithMode sets the initial mode.
func WithMode(m prompt.Mode) Option {
	return func(s *Session) { s.mode = m }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates an idle session with empty history in the default mode.
func New(ledger *progress.Ledger, transport Transport, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		ledger:    ledger,
		transport: transport,
		logger:    zap.NewNop(),
		mode:      prompt.DefaultMode,
		lang:      i18n.LearnerDefault,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SelectMode switches the pedagogical mode. History is kept.
func (s *Session) SelectMode(m prompt.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// SetCurriculumTopic moves the curriculum cursor. The index is stored as
// given; out-of-range values resolve to the first topic when composed.
func (s *Session) SetCurriculumTopic(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topic = i
}

// SetLanguage switches the reply language for subsequent turns.
func (s *Session) SetLanguage(lang i18n.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = lang
}

// ClearHistory empties the conversation.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Session) Mode() prompt.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Topic() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

func (s *Session) Language() i18n.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// History returns a copy of the conversation, oldest first.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history...)
}

// State returns a copy of the whole session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:         s.id,
		Mode:       s.mode,
		Language:   s.lang,
		Topic:      s.topic,
		TopicLabel: prompt.TopicLabel(s.topic, s.lang),
		History:    append([]llm.Message{}, s.history...),
		InFlight:   s.inFlight,
	}
}

// SubmitTurn sends text to the tutor. The user message is appended before
// the transport is called; the request carries the HistoryWindow entries
// that preceded it. On success the reply is appended, TurnXP awarded and
// the tutor module marked complete.
// On failure a localized error message is appended instead and the
// result's Err holds the cause. The returned error is non-nil only for
// ErrEmptyInput and ErrTurnInFlight.
func (s *Session) SubmitTurn(ctx context.Context, text string) (TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TurnResult{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return TurnResult{}, ErrTurnInFlight
	}
	req := chat.Request{
		Message:         text,
		Mode:            s.mode,
		Language:        s.lang,
		CurriculumTopic: s.topic,
		History:         chat.Window(s.history),
	}
	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: text})
	s.inFlight = true
	s.mu.Unlock()

	reply, err := s.send(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		msg := chat.ErrorMessage(req.Language, err)
		s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: msg})
		s.logger.Warn("tutor turn failed",
			zap.String("session", s.id),
			zap.String("mode", string(req.Mode)),
			zap.Error(err),
		)
		return TurnResult{Reply: msg, Failed: true, Err: err}, nil
	}

	s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: reply})
	if s.ledger != nil {
		s.ledger.AddXP(TurnXP)
		s.ledger.CompleteModule(progress.ModuleTutor)
	}
	return TurnResult{Reply: reply, XPAwarded: TurnXP}, nil
}

func (s *Session) send(ctx context.Context, req chat.Request) (string, error) {
	if s.transport == nil {
		return "", &chat.ErrNotConfigured{Language: req.Language}
	}
	reply, err := s.transport.Send(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", chat.ErrEmptyReply
	}
	return reply, nil
}
