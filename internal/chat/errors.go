package chat

import (
	"context"
	"errors"

	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/llm"
)

// ErrEmptyReply is returned when the backend answers with no text.
var ErrEmptyReply = errors.New("chat: empty reply")

// ErrUnreachable marks failures to reach the submission endpoint itself,
// as opposed to failures reported by it.
var ErrUnreachable = errors.New("chat: endpoint unreachable")

// ErrNotConfigured is returned when no completion credential is available.
// Its message is already localized.
type ErrNotConfigured struct {
	Language i18n.Language
	Err      error
}

func (e *ErrNotConfigured) Error() string {
	return i18n.T(e.Language, i18n.ErrAPINotConfigured)
}

func (e *ErrNotConfigured) Unwrap() error { return e.Err }

// userMessager is an error that carries text already localized for the
// learner, such as a failure reported by a remote submission endpoint.
type userMessager interface {
	UserMessage() string
}

// ErrorMessage returns the localized, user-visible text for a failed turn.
func ErrorMessage(lang i18n.Language, err error) string {
	var notConfigured *ErrNotConfigured
	var missingKey *llm.ErrMissingAPIKey
	var remote userMessager
	switch {
	case errors.As(err, &notConfigured), errors.As(err, &missingKey):
		return i18n.T(lang, i18n.ErrAPINotConfigured)
	case errors.As(err, &remote) && remote.UserMessage() != "":
		return remote.UserMessage()
	case errors.Is(err, ErrEmptyReply):
		return i18n.T(lang, i18n.ErrNoResponse)
	case errors.Is(err, ErrUnreachable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return i18n.T(lang, i18n.ErrConnection)
	default:
		return i18n.T(lang, i18n.ErrResponseFailed)
	}
}
