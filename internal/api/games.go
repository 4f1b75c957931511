package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/bitlit/internal/games"
	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/learner"
)

// CategoryView is a budget category with its current allocation.
type CategoryView struct {
	games.Category
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// BudgetView is the response of GET /api/games/budget.
type BudgetView struct {
	Income     int            `json:"income"`
	Categories []CategoryView `json:"categories"`
	Total      int            `json:"total"`
	Remaining  int            `json:"remaining"`
}

func budgetView(l *learner.Learner) BudgetView {
	lang := l.Language()
	alloc := l.Budget.Budget.Allocations()
	v := BudgetView{Income: games.BudgetIncome}
	for _, c := range games.Categories() {
		v.Categories = append(v.Categories, CategoryView{Category: c, Label: c.ID.Label(lang), Amount: alloc[c.ID]})
		v.Total += alloc[c.ID]
	}
	v.Remaining = games.BudgetIncome - v.Total
	return v
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	JSON(w, http.StatusOK, budgetView(l))
}

// SetAllocation moves one budget slider. The amount is clamped to the
// category bounds.
func (h *Handler) SetAllocation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount int `json:"amount"`
	}
	if err := decodeBody(r, "allocation", &body); err != nil {
		h.badRequest(w, err)
		return
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	category := games.CategoryID(chi.URLParam(r, "category"))
	if _, err := l.Budget.Budget.Set(category, body.Amount); err != nil {
		Error(w, http.StatusNotFound, err.Error())
		return
	}
	JSON(w, http.StatusOK, budgetView(l))
}

func (h *Handler) CheckBudget(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	res := l.Budget.Check()
	if res.Rewarded {
		h.persist(r, l)
	}
	JSON(w, http.StatusOK, map[string]any{
		"result":   res,
		"message":  res.Outcome.Message(l.Language()),
		"progress": progressView(l),
	})
}

func (h *Handler) ResetBudget(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	l.Budget.Budget.Reset()
	JSON(w, http.StatusOK, budgetView(l))
}

// QuizView is the response of GET /api/games/quiz. Question is nil once
// the quiz is complete.
type QuizView struct {
	games.QuizState
	Total    int             `json:"total"`
	Question *games.Question `json:"question,omitempty"`
}

func quizView(l *learner.Learner) QuizView {
	v := QuizView{QuizState: l.Quiz.Quiz.State(), Total: games.QuestionCount()}
	if q, ok := l.Quiz.Current(l.Language()); ok {
		v.Question = &q
	}
	return v
}

func quizStatus(err error) int {
	switch {
	case errors.Is(err, games.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, games.ErrQuizComplete),
		errors.Is(err, games.ErrAlreadyAnswered),
		errors.Is(err, games.ErrNotAnswered):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	JSON(w, http.StatusOK, quizView(l))
}

func (h *Handler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Choice int `json:"choice"`
	}
	if err := decodeBody(r, "answer", &body); err != nil {
		h.badRequest(w, err)
		return
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	res, err := l.Quiz.Answer(l.Language(), body.Choice)
	if err != nil {
		Error(w, quizStatus(err), err.Error())
		return
	}
	if res.Correct {
		h.persist(r, l)
	}
	JSON(w, http.StatusOK, map[string]any{"result": res, "progress": progressView(l)})
}

func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	sum, err := l.Quiz.Next()
	if err != nil {
		Error(w, quizStatus(err), err.Error())
		return
	}
	if sum.Complete {
		h.persist(r, l)
	}
	JSON(w, http.StatusOK, map[string]any{"summary": sum, "quiz": quizView(l), "progress": progressView(l)})
}

func (h *Handler) ResetQuiz(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	l.Quiz.Reset()
	JSON(w, http.StatusOK, quizView(l))
}

// FeeTierView is a localized fee tier.
type FeeTierView struct {
	ID    games.FeeTier `json:"id"`
	Label string        `json:"label"`
}

// WalletView is the response of GET /api/games/wallet. Recipient is a
// fresh simulated address for the send form.
type WalletView struct {
	Balance   int64         `json:"balance"`
	Tiers     []FeeTierView `json:"tiers"`
	Recipient string        `json:"recipient"`
}

func walletView(l *learner.Learner) WalletView {
	lang := l.Language()
	v := WalletView{Balance: l.Wallet.Wallet.Balance(), Recipient: games.NewRecipientAddress()}
	for _, t := range games.FeeTiers() {
		v.Tiers = append(v.Tiers, FeeTierView{ID: t, Label: t.Label(lang)})
	}
	return v
}

func walletStatus(err error) int {
	switch {
	case errors.Is(err, games.ErrInvalidAmount), errors.Is(err, games.ErrUnknownFeeTier):
		return http.StatusBadRequest
	case errors.Is(err, games.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	JSON(w, http.StatusOK, walletView(l))
}

type sendBody struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Tier      string `json:"tier"`
}

func (b sendBody) tier() (games.FeeTier, error) {
	t, ok := games.ParseFeeTier(b.Tier)
	if !ok {
		return "", games.ErrUnknownFeeTier
	}
	return t, nil
}

func (h *Handler) QuoteSend(w http.ResponseWriter, r *http.Request) {
	var body sendBody
	if err := decodeBody(r, "quote", &body); err != nil {
		h.badRequest(w, err)
		return
	}
	tier, err := body.tier()
	if err != nil {
		Error(w, walletStatus(err), err.Error())
		return
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	q, err := l.Wallet.Quote(body.Amount, tier)
	if err != nil {
		Error(w, walletStatus(err), err.Error())
		return
	}
	JSON(w, http.StatusOK, q)
}

// Send performs a simulated transaction. A missing recipient gets a
// generated address.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var body sendBody
	if err := decodeBody(r, "send", &body); err != nil {
		h.badRequest(w, err)
		return
	}
	tier, err := body.tier()
	if err != nil {
		Error(w, walletStatus(err), err.Error())
		return
	}
	if body.Recipient == "" {
		body.Recipient = games.NewRecipientAddress()
	}
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	receipt, err := l.Wallet.Send(body.Recipient, body.Amount, tier)
	if errors.Is(err, games.ErrInsufficientFunds) {
		Error(w, walletStatus(err), i18n.T(l.Language(), i18n.TxInsufficient))
		return
	}
	if err != nil {
		Error(w, walletStatus(err), err.Error())
		return
	}
	h.persist(r, l)
	JSON(w, http.StatusOK, map[string]any{
		"receipt":  receipt,
		"message":  i18n.T(l.Language(), i18n.TxSuccess),
		"progress": progressView(l),
	})
}

func (h *Handler) ResetWallet(w http.ResponseWriter, r *http.Request) {
	l := h.learnerFor(w, r)
	if l == nil {
		return
	}
	l.Wallet.Reset()
	JSON(w, http.StatusOK, walletView(l))
}
