package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/learner"
	"github.com/abhisek/bitlit/internal/progress"
	"github.com/abhisek/bitlit/internal/prompt"
	"github.com/abhisek/bitlit/internal/tutor"
)

// learnerFor loads the learner of the request. It writes the error
// response itself and returns nil on failure.
func (h *Handler) learnerFor(w http.ResponseWriter, r *http.Request) *learner.Learner {
	id := LearnerIDFromContext(r.Context())
	if id == "" {
		Error(w, http.StatusUnauthorized, "missing learner identity")
		return nil
	}
	l, err := h.registry.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("load learner", zap.String("learner", id), zap.Error(err))
		Error(w, http.StatusInternalServerError, "failed to load learner")
		return nil
	}
	return l
}

// persist snapshots l after a mutation. A failed save is logged and
// retried with the next mutation, since the in-memory state is intact.
func (h *Handler) persist(r *http.Request, l *learner.Learner) {
	if _, err := h.registry.Persist(r.Context(), l.ID); err != nil {
		h.logger.Warn("persist learner", zap.String("learner", l.ID), zap.Error(err))
	}
}

// AchievementView is a localized achievement.
type AchievementView struct {
	ID    progress.AchievementID `json:"id"`
	Label string                 `json:"label"`
	Icon  string                 `json:"icon"`
}

// ModuleView is a localized module.
type ModuleView struct {
	ID    progress.ModuleID `json:"id"`
	Label string            `json:"label"`
}

// ProgressView is the response of GET /api/progress.
type ProgressView struct {
	LearnerID        string            `json:"learnerId"`
	Language         i18n.Language     `json:"language"`
	XP               int               `json:"xp"`
	Level            int               `json:"level"`
	XPToNextLevel    int               `json:"xpToNextLevel"`
	Achievements     []AchievementView `json:"achievements"`
	CompletedModules []ModuleView      `json:"completedModules"`
}

func progressView(l *learner.Learner) ProgressView {
	lang := l.Language()
	sum := l.Ledger.Summary()
	v := ProgressView{
		LearnerID:        l.ID,
		Language:         lang,
		XP:               sum.XP,
		Level:            sum.Level,
		XPToNextLevel:    sum.XPToNextLevel,
		Achievements:     make([]AchievementView, 0, len(sum.Achievements)),
		CompletedModules: make([]ModuleView, 0, len(sum.CompletedModules)),
	}
	for _, a := range sum.Achievements {
		v.Achievements = append(v.Achievements, AchievementView{ID: a, Label: a.Label(lang), Icon: a.Icon()})
	}
	for _, m := range sum.CompletedModules {
		v.CompletedModules = append(v.CompletedModules, ModuleView{ID: m, Label: m.Label(lang)})
	}
	return v
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	JSON(w, http.StatusOK, progressView(l))
}

// ResetProgress forgets the learner and all of its snapshots.
func (h *Handler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	id := LearnerIDFromContext(r.Context())
	if err := h.registry.Reset(r.Context(), id); err != nil {
		h.logger.Error("reset learner", zap.String("learner", id), zap.Error(err))
		Error(w, http.StatusInternalServerError, "failed to reset learner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language string `json:"language"`
	}
	if err := decodeBody(r, "language", &body); err != nil {
		h.badRequest(w, err)
		return
	}
	lang, ok := i18n.ParseLanguage(body.Language)
	if !ok {
		Error(w, http.StatusBadRequest, "unsupported language")
		return
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	l.SetLanguage(lang)
	h.persist(r, l)
	JSON(w, http.StatusOK, progressView(l))
}

// ModeView is a localized tutor mode.
type ModeView struct {
	ID          prompt.Mode `json:"id"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
}

// TopicView is a localized curriculum topic.
type TopicView struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// GetCurriculum lists the tutor modes and curriculum topics in the
// learner's language.
func (h *Handler) GetCurriculum(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	lang := l.Language()

	modes := make([]ModeView, 0, len(prompt.Modes()))
	for _, m := range prompt.Modes() {
		modes = append(modes, ModeView{ID: m, Label: m.Label(lang), Description: m.Description(lang)})
	}
	topics := make([]TopicView, 0, prompt.TopicCount)
	for _, t := range prompt.Topics() {
		topics = append(topics, TopicView{Index: t.Index, Label: prompt.TopicLabel(t.Index, lang)})
	}
	JSON(w, http.StatusOK, map[string]any{"modes": modes, "topics": topics})
}

func (h *Handler) GetTutor(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	JSON(w, http.StatusOK, l.Tutor.State())
}

func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := decodeBody(r, "mode", &body); err != nil {
		h.badRequest(w, err)
		return
	}
	mode, ok := prompt.ParseMode(body.Mode)
	if !ok {
		Error(w, http.StatusBadRequest, "unknown mode")
		return
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	l.Tutor.SelectMode(mode)
	JSON(w, http.StatusOK, l.Tutor.State())
}

func (h *Handler) SetTopic(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Topic int `json:"topic"`
	}
	if err := decodeBody(r, "topic", &body); err != nil {
		h.badRequest(w, err)
		return
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	l.Tutor.SetCurriculumTopic(body.Topic)
	JSON(w, http.StatusOK, l.Tutor.State())
}

// TurnView is the response of a submitted tutor turn.
type TurnView struct {
	tutor.TurnResult
	Progress ProgressView `json:"progress"`
}

// SubmitTurn runs one tutor turn for the learner. A turn that reached the
// tutor answers 200 even when it failed; the failure text is the reply.
func (h *Handler) SubmitTurn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := decodeBody(r, "turn", &body); err != nil {
		h.badRequest(w, err)
		return
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}

	res, err := l.Tutor.SubmitTurn(r.Context(), body.Message)
	switch {
	case errors.Is(err, tutor.ErrEmptyInput):
		Error(w, http.StatusBadRequest, "empty message")
		return
	case errors.Is(err, tutor.ErrTurnInFlight):
		Error(w, http.StatusConflict, "a turn is already in flight")
		return
	case err != nil:
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !res.Failed {
		h.persist(r, l)
	}
	JSON(w, http.StatusOK, TurnView{TurnResult: res, Progress: progressView(l)})
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	l.Tutor.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

// CompleteLesson finishes a reading lesson.
func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	module, ok := progress.ParseModule(chi.URLParam(r, "module"))
	if !ok {
		Error(w, http.StatusNotFound, "unknown module")
		return
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	res, err := l.Lessons.Complete(module)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.persist(r, l)
	JSON(w, http.StatusOK, map[string]any{"result": res, "progress": progressView(l)})
}
