// Package api provides the HTTP surface: the chat submission endpoint and
// the per-learner progress, tutor and mini-game endpoints.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/chat"
	"github.com/abhisek/bitlit/internal/learner"
)

// Handler serves the API for a registry of learners.
type Handler struct {
	registry *learner.Registry
	chat     *chat.Service
	logger   *zap.Logger
}

// NewHandler creates a Handler. chat serves POST /api/chat; learner tutor
// turns go through the registry's transport.
func NewHandler(registry *learner.Registry, svc *chat.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, chat: svc, logger: logger}
}

// RouterConfig holds the router's environment-dependent settings.
type RouterConfig struct {
	AllowedOrigins []string
	Dev            bool
}

// NewRouter builds the chi router with global middleware and all routes.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(CORS(cfg.AllowedOrigins))

	r.Post(ChatPath, h.Chat)

	r.Group(func(r chi.Router) {
		r.Use(Identity(cfg.Dev))
		h.RegisterRoutes(r)
	})
	return r
}

// RegisterRoutes mounts the learner endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/curriculum", h.GetCurriculum)

		r.Get("/progress", h.GetProgress)
		r.Delete("/progress", h.ResetProgress)
		r.Put("/progress/language", h.SetLanguage)

		r.Route("/tutor", func(r chi.Router) {
			r.Get("/", h.GetTutor)
			r.Put("/mode", h.SetMode)
			r.Put("/topic", h.SetTopic)
			r.Post("/turns", h.SubmitTurn)
			r.Delete("/history", h.ClearHistory)
		})

		r.Route("/games/budget", func(r chi.Router) {
			r.Get("/", h.GetBudget)
			r.Put("/{category}", h.SetAllocation)
			r.Post("/check", h.CheckBudget)
			r.Post("/reset", h.ResetBudget)
		})

		r.Route("/games/quiz", func(r chi.Router) {
			r.Get("/", h.GetQuiz)
			r.Post("/answer", h.AnswerQuiz)
			r.Post("/next", h.NextQuestion)
			r.Post("/reset", h.ResetQuiz)
		})

		r.Route("/games/wallet", func(r chi.Router) {
			r.Get("/", h.GetWallet)
			r.Post("/quote", h.QuoteSend)
			r.Post("/send", h.Send)
			r.Post("/reset", h.ResetWallet)
		})

		r.Post("/lessons/{module}/complete", h.CompleteLesson)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, chat.ErrorResponse{Error: message})
}

// badRequest writes a 400 for decode failures and a 500 for anything
// else decodeBody can return.
func (h *Handler) badRequest(w http.ResponseWriter, err error) {
	if errors.Is(err, errBadRequest) {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("request decoding failed", zap.Error(err))
	Error(w, http.StatusInternalServerError, "internal error")
}
