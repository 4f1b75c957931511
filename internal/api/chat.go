package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/chat"
	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/tutor"
)

// ChatPath is the submission endpoint route.
const ChatPath = tutor.ChatPath

// PurposeChatAPI labels completions requested through ChatPath.
const PurposeChatAPI = "chat-api"

// Chat is the submission endpoint. A missing credential answers 500;
// every other backend failure answers 200 with a localized error.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := decodeBody(r, "chat", &req); err != nil {
		h.badRequest(w, err)
		return
	}
	lang := req.Language.OrDefault()

	ctx := llm.WithPurpose(r.Context(), PurposeChatAPI)
	reply, err := h.chat.Reply(ctx, req)

	var notConfigured *chat.ErrNotConfigured
	switch {
	case errors.As(err, &notConfigured):
		Error(w, http.StatusInternalServerError, chat.ErrorMessage(lang, err))
	case err != nil:
		h.logger.Warn("chat reply failed", zap.String("mode", string(req.Mode)), zap.Error(err))
		JSON(w, http.StatusOK, chat.ErrorResponse{Error: chat.ErrorMessage(lang, err)})
	default:
		JSON(w, http.StatusOK, chat.Response{Response: reply})
	}
}
