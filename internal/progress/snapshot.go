package progress

import (
	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/store"
)

// Encode captures the persisted subset of learner state: the language and
// the four ledger fields. Nothing else is ever serialized.
func Encode(lang i18n.Language, l *Ledger) store.SnapshotData {
	sum := l.Summary()

	data := store.SnapshotData{
		Language:         string(lang.OrDefault()),
		XP:               sum.XP,
		Level:            sum.Level,
		Achievements:     make([]string, 0, len(sum.Achievements)),
		CompletedModules: make([]string, 0, len(sum.CompletedModules)),
	}
	for _, a := range sum.Achievements {
		data.Achievements = append(data.Achievements, string(a))
	}
	for _, m := range sum.CompletedModules {
		data.CompletedModules = append(data.CompletedModules, string(m))
	}
	return data
}

// Decode restores a ledger and language from a snapshot. The stored level
// is ignored and re-derived from XP. Duplicate identifiers collapse and an
// unsupported language falls back to i18n.LearnerDefault.
func Decode(data store.SnapshotData) (i18n.Language, *Ledger) {
	lang, ok := i18n.ParseLanguage(data.Language)
	if !ok {
		lang = i18n.LearnerDefault
	}

	l := NewLedger()
	if data.XP > 0 {
		l.xp = data.XP
	}
	seenAch := make(map[string]bool, len(data.Achievements))
	for _, a := range data.Achievements {
		if a == "" || seenAch[a] {
			continue
		}
		seenAch[a] = true
		l.achievements = append(l.achievements, AchievementID(a))
	}
	seenMod := make(map[string]bool, len(data.CompletedModules))
	for _, m := range data.CompletedModules {
		if m == "" || seenMod[m] {
			continue
		}
		seenMod[m] = true
		l.modules = append(l.modules, ModuleID(m))
	}
	return lang, l
}
