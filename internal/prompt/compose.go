package prompt

import (
	"strings"

	"github.com/abhisek/bitlit/internal/i18n"
)

// Template returns the raw instruction template for mode in lang.
// An unknown mode resolves to the Socratic template in the default
// language; an unsupported language resolves to the mode's default
// language template.
func Template(mode Mode, lang i18n.Language) string {
	byLang, ok := templates[mode]
	if !ok {
		return templates[DefaultMode][i18n.Default]
	}
	if t, ok := byLang[lang]; ok {
		return t
	}
	return byLang[i18n.Default]
}

// Compose builds the system instruction for a turn. In Curriculum mode the
// topic placeholder is replaced by the label of topicIndex (clamped to the
// first topic when out of range). The result never contains the
// placeholder.
func Compose(mode Mode, lang i18n.Language, topicIndex int) string {
	tmpl := Template(mode, lang)
	if mode != Curriculum {
		return tmpl
	}
	label := TopicLabel(topicIndex, lang)
	return strings.Replace(tmpl, TopicPlaceholder, label, 1)
}
