package progress

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/store"
)

func TestEncode_PersistsExactlyFiveFields(t *testing.T) {
	l := NewLedger()
	l.AddXP(40)
	l.AwardAchievement(AchFirstLesson)
	l.CompleteModule(ModuleBasics)

	raw, err := json.Marshal(Encode(i18n.English, l))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"language", "xp", "level", "achievements", "completedModules"}, keys)
	assert.Equal(t, "en", fields["language"])
	assert.EqualValues(t, 65, fields["xp"])
	assert.EqualValues(t, 1, fields["level"])
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	l := NewLedger()
	l.AddXP(180)
	l.AwardAchievement(AchQuizChampion)
	l.CompleteModule(ModuleQuiz)
	l.CompleteModule(ModuleBudget)

	lang, restored := Decode(Encode(i18n.Spanish, l))
	assert.Equal(t, i18n.Spanish, lang)
	assert.Equal(t, l.Summary(), restored.Summary())
}

func TestDecode_RederivesLevelAndDedupes(t *testing.T) {
	data := store.SnapshotData{
		Language:         "fr",
		XP:               250,
		Level:            9,
		Achievements:     []string{"ach_budget_pro", "ach_budget_pro", ""},
		CompletedModules: []string{"budget", "budget"},
	}

	lang, l := Decode(data)
	assert.Equal(t, i18n.LearnerDefault, lang)
	assert.Equal(t, 3, l.Level())
	assert.Equal(t, []AchievementID{AchBudgetPro}, l.Achievements())
	assert.Equal(t, []ModuleID{ModuleBudget}, l.CompletedModules())

	// A restored achievement is still idempotent.
	assert.False(t, l.AwardAchievement(AchBudgetPro))
	assert.Equal(t, 250, l.XP())
}

func TestDecode_NegativeXPClamped(t *testing.T) {
	_, l := Decode(store.SnapshotData{Language: "en", XP: -40})
	assert.Equal(t, 0, l.XP())
	assert.Equal(t, 1, l.Level())
}
