// Package games holds the mini-game state slices and the owning modules
// that evaluate them and feed rewards into the progress ledger.
//
// Slices only store state: setters, accessors and a reset to defaults.
// Success predicates and rewards live in the owning module types.
package games

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/progress"
)

const (
	// BudgetIncome is the monthly income the family has to allocate.
	BudgetIncome = 750

	// BudgetTolerance is the largest unallocated remainder that still
	// counts as balanced.
	BudgetTolerance = 50

	// BudgetXP is granted the first time the budget balances.
	BudgetXP = 30
)

// ErrUnknownCategory is returned for an allocation to an unknown category.
var ErrUnknownCategory = errors.New("unknown budget category")

// CategoryID identifies a budget category.
type CategoryID string

const (
	CategoryFood          CategoryID = "food"
	CategoryHousing       CategoryID = "housing"
	CategoryTransport     CategoryID = "transport"
	CategorySavings       CategoryID = "savings"
	CategoryEntertainment CategoryID = "entertainment"
)

// Category describes a budget line and its slider bounds.
type Category struct {
	ID      CategoryID `json:"id"`
	Max     int        `json:"max"`
	Default int        `json:"default"`
}

var categories = []Category{
	{ID: CategoryFood, Max: 300, Default: 200},
	{ID: CategoryHousing, Max: 400, Default: 300},
	{ID: CategoryTransport, Max: 200, Default: 100},
	{ID: CategorySavings, Max: 300, Default: 100},
	{ID: CategoryEntertainment, Max: 150, Default: 50},
}

// Categories returns the budget categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func lookupCategory(id CategoryID) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Label returns the localized category name.
func (id CategoryID) Label(lang i18n.Language) string {
	return i18n.T(lang, i18n.Key(id))
}

// Budget is the budgeting game's state slice.
type Budget struct {
	mu    sync.Mutex
	alloc map[CategoryID]int
}

// NewBudget returns a budget with the default allocations.
func NewBudget() *Budget {
	b := &Budget{}
	b.Reset()
	return b
}

// Set allocates amount to category, clamped to [0, category max].
func (b *Budget) Set(category CategoryID, amount int) (int, error) {
	c, ok := lookupCategory(category)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	amount = max(0, min(amount, c.Max))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.alloc[category] = amount
	return amount, nil
}

// Get returns the allocation for category.
func (b *Budget) Get(category CategoryID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alloc[category]
}

// Allocations returns a copy of all allocations.
func (b *Budget) Allocations() map[CategoryID]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.alloc)
}

// Total returns the sum of all allocations.
func (b *Budget) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, v := range b.alloc {
		total += v
	}
	return total
}

// Reset restores the default allocations.
func (b *Budget) Reset() {
	alloc := make(map[CategoryID]int, len(categories))
	for _, c := range categories {
		alloc[c.ID] = c.Default
	}
	b.mu.Lock()
	b.alloc = alloc
	b.mu.Unlock()
}

// Outcome classifies a budget check.
type Outcome string

const (
	OutcomeBalanced Outcome = "balanced"
	OutcomeOver     Outcome = "over"
	OutcomeUnder    Outcome = "under"
)

// Message returns the localized feedback for the outcome.
func (o Outcome) Message(lang i18n.Language) string {
	switch o {
	case OutcomeBalanced:
		return i18n.T(lang, i18n.BudgetBalanced)
	case OutcomeOver:
		return i18n.T(lang, i18n.BudgetOver)
	default:
		return i18n.T(lang, i18n.BudgetUnder)
	}
}

// Evaluate classifies a total allocation against BudgetIncome.
func Evaluate(total int) (remaining int, outcome Outcome) {
	remaining = BudgetIncome - total
	switch {
	case remaining < 0:
		return remaining, OutcomeOver
	case remaining > BudgetTolerance:
		return remaining, OutcomeUnder
	default:
		return remaining, OutcomeBalanced
	}
}

// BudgetResult reports a budget check.
type BudgetResult struct {
	Total     int     `json:"total"`
	Remaining int     `json:"remaining"`
	Outcome   Outcome `json:"outcome"`
	// Rewarded is true only on the check that first balanced the budget.
	Rewarded bool `json:"rewarded"`
}

// BudgetGame owns the budget slice and its reward policy.
type BudgetGame struct {
	Budget *Budget
	ledger *progress.Ledger
}

// NewBudgetGame creates a budget game with default allocations.
func NewBudgetGame(ledger *progress.Ledger) *BudgetGame {
	return &BudgetGame{Budget: NewBudget(), ledger: ledger}
}

// Check evaluates the current allocations. The first balanced check
// awards the budget achievement, completes the module and grants
// BudgetXP; later checks report without rewarding. Over and under
// outcomes never block another attempt.
func (g *BudgetGame) Check() BudgetResult {
	total := g.Budget.Total()
	remaining, outcome := Evaluate(total)
	res := BudgetResult{Total: total, Remaining: remaining, Outcome: outcome}

	if outcome == OutcomeBalanced && g.ledger.CompleteModule(progress.ModuleBudget) {
		g.ledger.AwardAchievement(progress.AchBudgetPro)
		g.ledger.AddXP(BudgetXP)
		res.Rewarded = true
	}
	return res
}
