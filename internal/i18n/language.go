// Package i18n holds the supported learner languages and the localized
// string catalog shared by the progress, games and tutor packages.
package i18n

import "strings"

// Language is a supported learner language.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// Default is the language catalog lookups fall back to when the requested
// language has no entry.
const Default = English

// LearnerDefault is the language a brand-new learner starts with.
const LearnerDefault = Spanish

// Languages lists every supported language in display order.
func Languages() []Language {
	return []Language{English, Spanish}
}

// ParseLanguage maps a language code to a Language. Codes are matched
// case-insensitively; unknown codes return false.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case English:
		return English, true
	case Spanish:
		return Spanish, true
	}
	return "", false
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == English || l == Spanish
}

// OrDefault returns l when it is supported and Default otherwise.
func (l Language) OrDefault() Language {
	if l.Valid() {
		return l
	}
	return Default
}

func (l Language) String() string {
	return string(l)
}
