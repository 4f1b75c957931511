// Package learner wires one learner's ledger, mini-games and tutor session
// together, and keeps every loaded learner in a registry backed by
// snapshots.
package learner

import (
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/games"
	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/progress"
	"github.com/abhisek/bitlit/internal/store"
	"github.com/abhisek/bitlit/internal/tutor"
)

// Learner is the injectable container for one learner's state. Only the
// language and the ledger are persisted; everything else starts fresh
// on load.
type Learner struct {
	ID      string
	Ledger  *progress.Ledger
	Budget  *games.BudgetGame
	Quiz    *games.QuizGame
	Wallet  *games.TxSimulator
	Lessons *games.Lessons
	Tutor   *tutor.Session

	mu      sync.Mutex
	lang    i18n.Language
	langRev uint64
}

// New builds a learner around ledger. A nil ledger starts from zero.
func New(id string, lang i18n.Language, ledger *progress.Ledger, transport tutor.Transport, logger *zap.Logger) *Learner {
	if ledger == nil {
		ledger = progress.NewLedger()
	}
	if !lang.Valid() {
		lang = i18n.LearnerDefault
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Learner{
		ID:      id,
		Ledger:  ledger,
		Budget:  games.NewBudgetGame(ledger),
		Quiz:    games.NewQuizGame(ledger),
		Wallet:  games.NewTxSimulator(ledger),
		Lessons: games.NewLessons(ledger),
		Tutor: tutor.New(ledger, transport,
			tutor.WithLanguage(lang),
			tutor.WithLogger(logger.With(zap.String("learner", id))),
		),
		lang: lang,
	}
}

// FromSnapshot restores a learner from persisted data.
func FromSnapshot(id string, data store.SnapshotData, transport tutor.Transport, logger *zap.Logger) *Learner {
	lang, ledger := progress.Decode(data)
	return New(id, lang, ledger, transport, logger)
}

// Language returns the interface language.
func (l *Learner) Language() i18n.Language {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lang
}

// SetLanguage switches the interface and tutor language.
func (l *Learner) SetLanguage(lang i18n.Language) {
	l.mu.Lock()
	if l.lang != lang {
		l.lang = lang
		l.langRev++
	}
	l.mu.Unlock()
	l.Tutor.SetLanguage(lang)
}

// Revision increases whenever persisted state changes.
func (l *Learner) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.langRev + l.Ledger.Revision()
}

// Snapshot encodes the persisted state.
func (l *Learner) Snapshot() store.SnapshotData {
	return progress.Encode(l.Language(), l.Ledger)
}
