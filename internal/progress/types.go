package progress

import "github.com/abhisek/bitlit/internal/i18n"

const (
	// XPPerLevel is the XP span of a single level.
	XPPerLevel = 100

	// AchievementBonusXP is granted once per newly awarded achievement.
	AchievementBonusXP = 25
)

// AchievementID identifies a one-time badge.
type AchievementID string

const (
	AchFirstLesson    AchievementID = "ach_first_lesson"
	AchSecurityMaster AchievementID = "ach_security_master"
	AchQuizChampion   AchievementID = "ach_quiz_champion"
	AchBudgetPro      AchievementID = "ach_budget_pro"
	AchStoryReader    AchievementID = "ach_story_reader"
)

// AllAchievements returns all achievements in display order.
func AllAchievements() []AchievementID {
	return []AchievementID{AchFirstLesson, AchSecurityMaster, AchQuizChampion, AchBudgetPro, AchStoryReader}
}

// Known reports whether id is one of the built-in achievements.
func (id AchievementID) Known() bool {
	for _, a := range AllAchievements() {
		if a == id {
			return true
		}
	}
	return false
}

// Label returns the localized display name.
func (id AchievementID) Label(lang i18n.Language) string {
	return i18n.T(lang, i18n.LabelKey("", string(id)))
}

// Icon returns the display icon for the achievement.
func (id AchievementID) Icon() string {
	switch id {
	case AchFirstLesson:
		return "📘"
	case AchSecurityMaster:
		return "🔐"
	case AchQuizChampion:
		return "🏆"
	case AchBudgetPro:
		return "💰"
	case AchStoryReader:
		return "📖"
	default:
		return "✦"
	}
}

// ModuleID identifies a lesson unit.
type ModuleID string

const (
	ModuleBasics    ModuleID = "basics"
	ModuleWallet    ModuleID = "wallet"
	ModuleHistory   ModuleID = "history"
	ModuleBudget    ModuleID = "budget"
	ModuleSimulator ModuleID = "simulator"
	ModuleQuiz      ModuleID = "quiz"
	ModuleStories   ModuleID = "stories"
	ModuleTutor     ModuleID = "tutor"
)

// AllModules returns all modules in curriculum order.
func AllModules() []ModuleID {
	return []ModuleID{
		ModuleBasics, ModuleWallet, ModuleHistory, ModuleBudget,
		ModuleSimulator, ModuleQuiz, ModuleStories, ModuleTutor,
	}
}

// ParseModule maps a module identifier to a ModuleID.
func ParseModule(s string) (ModuleID, bool) {
	for _, m := range AllModules() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Label returns the localized display name.
func (id ModuleID) Label(lang i18n.Language) string {
	return i18n.T(lang, i18n.LabelKey("module_", string(id)))
}
