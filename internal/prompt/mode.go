// Package prompt composes the tutor's system instruction from the active
// mode, language and curriculum topic. Everything here is a pure function
// of its inputs.
package prompt

import (
	"strings"

	"github.com/abhisek/bitlit/internal/i18n"
)

// Mode is a pedagogical conversation strategy. The string values are the
// wire identifiers used by the chat endpoint.
type Mode string

const (
	// Socratic guides with questions instead of answers.
	Socratic Mode = "socratic"
	// RoleReversal has the tutor play a student taught by the learner.
	RoleReversal Mode = "teacher"
	// PlainLanguage gives short, jargon-free, spoken-style answers.
	PlainLanguage Mode = "voice"
	// Curriculum walks the fixed topic list one topic at a time.
	Curriculum Mode = "curriculum"
)

// DefaultMode is used when no mode, or an unknown one, is given.
const DefaultMode = Socratic

// Modes returns every mode in display order.
func Modes() []Mode {
	return []Mode{Socratic, RoleReversal, PlainLanguage, Curriculum}
}

// ParseMode maps a wire identifier to a Mode.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := templates[m]
	return ok
}

// Label returns the localized mode name.
func (m Mode) Label(lang i18n.Language) string {
	switch m {
	case Socratic:
		return i18n.T(lang, i18n.ModeSocratic)
	case RoleReversal:
		return i18n.T(lang, i18n.ModeTeacher)
	case PlainLanguage:
		return i18n.T(lang, i18n.ModeVoice)
	case Curriculum:
		return i18n.T(lang, i18n.ModeCurriculum)
	}
	return string(m)
}

// Description returns the localized one-line mode description.
func (m Mode) Description(lang i18n.Language) string {
	switch m {
	case Socratic:
		return i18n.T(lang, i18n.SocraticDesc)
	case RoleReversal:
		return i18n.T(lang, i18n.TeacherDesc)
	case PlainLanguage:
		return i18n.T(lang, i18n.VoiceDesc)
	case Curriculum:
		return i18n.T(lang, i18n.CurriculumDesc)
	}
	return ""
}

func (m Mode) String() string {
	return string(m)
}
