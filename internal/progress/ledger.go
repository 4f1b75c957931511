// Package progress implements the learner's progress ledger: XP, the
// level derived from it, achievements and completed modules.
package progress

import (
	"slices"
	"sync"
)

// Ledger tracks a single learner's progression. The zero value is not
// usable; call NewLedger. A Ledger is safe for concurrent use.
//
// Invariant: Level() == XP()/XPPerLevel + 1 at all times.
type Ledger struct {
	mu           sync.Mutex
	xp           int
	achievements []AchievementID
	modules      []ModuleID
	revision     uint64
}

// NewLedger returns an empty ledger at level 1.
func NewLedger() *Ledger {
	return &Ledger{}
}

// LevelFor returns the level reached with the given XP.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// AddXP increases XP by amount. Non-positive amounts are ignored so the
// XP total can never decrease.
func (l *Ledger) AddXP(amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addXPLocked(amount)
}

func (l *Ledger) addXPLocked(amount int) {
	if amount <= 0 {
		return
	}
	l.xp += amount
	l.revision++
}

// AwardAchievement records id and grants AchievementBonusXP. It reports
// whether the achievement was newly awarded; repeat awards are no-ops.
func (l *Ledger) AwardAchievement(id AchievementID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if slices.Contains(l.achievements, id) {
		return false
	}
	l.achievements = append(l.achievements, id)
	l.revision++
	l.addXPLocked(AchievementBonusXP)
	return true
}

// CompleteModule marks id complete and reports whether it was newly
// completed. It never grants XP; owning modules add their own.
func (l *Ledger) CompleteModule(id ModuleID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if slices.Contains(l.modules, id) {
		return false
	}
	l.modules = append(l.modules, id)
	l.revision++
	return true
}

// XP returns the total experience points.
func (l *Ledger) XP() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.xp
}

// Level returns the level derived from XP.
func (l *Ledger) Level() int {
	return LevelFor(l.XP())
}

// XPToNextLevel returns the XP still needed to reach the next level.
func (l *Ledger) XPToNextLevel() int {
	xp := l.XP()
	return XPPerLevel - xp%XPPerLevel
}

// Achievements returns the awarded achievements in award order.
func (l *Ledger) Achievements() []AchievementID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.achievements)
}

// CompletedModules returns the completed modules in completion order.
func (l *Ledger) CompletedModules() []ModuleID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.modules)
}

// HasAchievement reports whether id has been awarded.
func (l *Ledger) HasAchievement(id AchievementID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.achievements, id)
}

// IsModuleComplete reports whether id has been completed.
func (l *Ledger) IsModuleComplete(id ModuleID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.modules, id)
}

// Revision increases on every state change. Persistence layers compare
// revisions to skip saving an unchanged ledger.
func (l *Ledger) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

// Summary is a point-in-time copy of the ledger.
type Summary struct {
	XP               int             `json:"xp"`
	Level            int             `json:"level"`
	XPToNextLevel    int             `json:"xpToNextLevel"`
	Achievements     []AchievementID `json:"achievements"`
	CompletedModules []ModuleID      `json:"completedModules"`
}

// Summary returns a consistent copy of the ledger state.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Summary{
		XP:               l.xp,
		Level:            LevelFor(l.xp),
		XPToNextLevel:    XPPerLevel - l.xp%XPPerLevel,
		Achievements:     append([]AchievementID{}, l.achievements...),
		CompletedModules: append([]ModuleID{}, l.modules...),
	}
}
