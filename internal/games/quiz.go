package games

import (
	"errors"
	"sync"

	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/progress"
)

// QuizCorrectXP is granted for each correctly answered question.
const QuizCorrectXP = 10

var (
	ErrQuizComplete    = errors.New("quiz already complete")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("question not answered yet")
	ErrInvalidChoice   = errors.New("invalid answer choice")
)

// Quiz is the quiz state slice. Index and score only move forward until
// Reset. Revealed is set between answering a question and advancing.
type Quiz struct {
	mu       sync.Mutex
	index    int
	score    int
	revealed bool
}

// QuizState is a copy of the quiz slice.
type QuizState struct {
	Index    int  `json:"index"`
	Score    int  `json:"score"`
	Revealed bool `json:"revealed"`
}

// State returns a copy of the slice.
func (q *Quiz) State() QuizState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QuizState{Index: q.index, Score: q.score, Revealed: q.revealed}
}

// Reset returns the quiz to the first question with a zero score.
func (q *Quiz) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.index, q.score, q.revealed = 0, 0, false
}

// ChampionThreshold reports whether score out of total earns the quiz
// champion achievement (at least 70%).
func ChampionThreshold(score, total int) bool {
	return total > 0 && 10*score >= 7*total
}

// AnswerResult reveals the outcome of an answer.
type AnswerResult struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
	Message      string `json:"message"`
	Score        int    `json:"score"`
}

// QuizSummary reports the quiz position after advancing.
type QuizSummary struct {
	Index    int  `json:"index"`
	Score    int  `json:"score"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
	Champion bool `json:"champion"`
}

// QuizGame owns the quiz slice and its reward policy.
type QuizGame struct {
	Quiz   *Quiz
	ledger *progress.Ledger
}

// NewQuizGame creates a quiz positioned at the first question.
func NewQuizGame(ledger *progress.Ledger) *QuizGame {
	return &QuizGame{Quiz: &Quiz{}, ledger: ledger}
}

// Current returns the active question in lang, or false when the quiz is
// complete.
func (g *QuizGame) Current(lang i18n.Language) (Question, bool) {
	st := g.Quiz.State()
	qs := Questions(lang)
	if st.Index >= len(qs) {
		return Question{}, false
	}
	return qs[st.Index], true
}

// Answer submits choice for the active question and reveals the result.
// Only the first answer to a question counts; a correct answer scores a
// point and grants QuizCorrectXP.
func (g *QuizGame) Answer(lang i18n.Language, choice int) (AnswerResult, error) {
	qs := Questions(lang)

	g.Quiz.mu.Lock()
	if g.Quiz.index >= len(qs) {
		g.Quiz.mu.Unlock()
		return AnswerResult{}, ErrQuizComplete
	}
	if g.Quiz.revealed {
		g.Quiz.mu.Unlock()
		return AnswerResult{}, ErrAlreadyAnswered
	}
	q := qs[g.Quiz.index]
	if choice < 0 || choice >= len(q.Options) {
		g.Quiz.mu.Unlock()
		return AnswerResult{}, ErrInvalidChoice
	}

	correct := choice == q.Correct
	g.Quiz.revealed = true
	if correct {
		g.Quiz.score++
	}
	score := g.Quiz.score
	g.Quiz.mu.Unlock()

	res := AnswerResult{
		Correct:      correct,
		CorrectIndex: q.Correct,
		Explanation:  q.Explanation,
		Score:        score,
	}
	if correct {
		g.ledger.AddXP(QuizCorrectXP)
		res.Message = i18n.T(lang, i18n.QuizCorrect)
	} else {
		res.Message = i18n.T(lang, i18n.QuizIncorrect) + " " + q.Options[q.Correct]
	}
	return res, nil
}

// Next advances past an answered question. Reaching the end completes the
// quiz module and awards the champion achievement when the score meets
// ChampionThreshold.
func (g *QuizGame) Next() (QuizSummary, error) {
	total := QuestionCount()

	g.Quiz.mu.Lock()
	if g.Quiz.index >= total {
		g.Quiz.mu.Unlock()
		return QuizSummary{}, ErrQuizComplete
	}
	if !g.Quiz.revealed {
		g.Quiz.mu.Unlock()
		return QuizSummary{}, ErrNotAnswered
	}
	g.Quiz.index++
	g.Quiz.revealed = false
	sum := QuizSummary{Index: g.Quiz.index, Score: g.Quiz.score, Total: total}
	g.Quiz.mu.Unlock()

	if sum.Index >= total {
		sum.Complete = true
		if ChampionThreshold(sum.Score, total) {
			g.ledger.AwardAchievement(progress.AchQuizChampion)
			sum.Champion = true
		}
		g.ledger.CompleteModule(progress.ModuleQuiz)
	}
	return sum, nil
}

// Reset restarts the quiz. Achievements already earned are kept.
func (g *QuizGame) Reset() {
	g.Quiz.Reset()
}
