package prompt

import (
	"strings"
	"testing"

	"github.com/abhisek/bitlit/internal/i18n"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"socratic", Socratic, true},
		{"teacher", RoleReversal, true},
		{"Voice", PlainLanguage, true},
		{"curriculum", Curriculum, true},
		{"lecture", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTemplate_EveryModeAndLanguage(t *testing.T) {
	for _, m := range Modes() {
		for _, lang := range i18n.Languages() {
			if Template(m, lang) == "" {
				t.Errorf("empty template for %s/%s", m, lang)
			}
		}
		if Template(m, i18n.English) == Template(m, i18n.Spanish) {
			t.Errorf("mode %s: en and es templates are identical", m)
		}
	}
}

func TestTemplate_Fallbacks(t *testing.T) {
	socraticEN := Template(Socratic, i18n.English)

	if got := Template(Mode("lecture"), i18n.Spanish); got != socraticEN {
		t.Errorf("unknown mode should fall back to socratic/en, got %q", got[:40])
	}
	if got := Template(PlainLanguage, i18n.Language("fr")); got != Template(PlainLanguage, i18n.English) {
		t.Errorf("unknown language should fall back to the mode's default language")
	}
}

func TestCompose_CurriculumSubstitutesOnce(t *testing.T) {
	got := Compose(Curriculum, i18n.Spanish, 2)

	if strings.Contains(got, TopicPlaceholder) {
		t.Fatalf("placeholder left in output")
	}
	label := "Satoshis y Unidades"
	if !strings.Contains(got, "Tema actual: "+label) {
		t.Errorf("expected topic label after header, got:\n%s", got)
	}
	// The catalog listing also names the topic; only the header line is substituted.
	tmpl := Template(Curriculum, i18n.Spanish)
	if strings.Count(got, label) != strings.Count(tmpl, label)+1 {
		t.Errorf("expected exactly one substitution of %q", label)
	}
}

func TestCompose_OutOfRangeTopic(t *testing.T) {
	for _, idx := range []int{-1, 7, 99} {
		got := Compose(Curriculum, i18n.English, idx)
		if !strings.Contains(got, "Current topic: What is Bitcoin?") {
			t.Errorf("index %d: expected first topic, got:\n%s", idx, got)
		}
	}
}

func TestCompose_NonCurriculumIgnoresTopic(t *testing.T) {
	for _, m := range []Mode{Socratic, RoleReversal, PlainLanguage} {
		if Compose(m, i18n.English, 5) != Template(m, i18n.English) {
			t.Errorf("mode %s should not depend on topic", m)
		}
	}
}

func TestCompose_NeverLeavesPlaceholder(t *testing.T) {
	for _, m := range append(Modes(), Mode("bogus")) {
		for _, lang := range []i18n.Language{i18n.English, i18n.Spanish, "fr"} {
			for idx := -1; idx <= TopicCount; idx++ {
				if strings.Contains(Compose(m, lang, idx), TopicPlaceholder) {
					t.Errorf("placeholder left for %s/%s/%d", m, lang, idx)
				}
			}
		}
	}
}

func TestTopics(t *testing.T) {
	ts := Topics()
	if len(ts) != 7 {
		t.Fatalf("expected 7 topics, got %d", len(ts))
	}
	for i, topic := range ts {
		if topic.Index != i {
			t.Errorf("topic %d has index %d", i, topic.Index)
		}
		for _, lang := range i18n.Languages() {
			if topic.Labels[lang] == "" {
				t.Errorf("topic %d missing %s label", i, lang)
			}
		}
	}
	if got := TopicLabel(4, i18n.Spanish); got != "Red Lightning" {
		t.Errorf("TopicLabel(4, es) = %q", got)
	}
}
