// Package chat is the submission endpoint service: it turns a tutor turn
// into a completion request and returns exactly one reply or an error.
package chat

import (
	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/prompt"
)

// Decoding parameters sent with every turn.
const (
	MaxTokens   = 400
	Temperature = 0.7
)

// HistoryWindow is the number of prior history entries forwarded with a
// turn.
const HistoryWindow = 10

// Request is the submission payload.
type Request struct {
	Message         string        `json:"message"`
	Mode            prompt.Mode   `json:"mode"`
	Language        i18n.Language `json:"language"`
	CurriculumTopic int           `json:"curriculumTopic"`
	History         []llm.Message `json:"history"`
}

// Response is the success payload.
type Response struct {
	Response string `json:"response"`
}

// ErrorResponse is the failure payload. Error is user-visible and localized.
type ErrorResponse struct {
	Error string `json:"error"`
}
