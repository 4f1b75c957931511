package games

import (
	"errors"
	"fmt"

	"github.com/abhisek/bitlit/internal/progress"
)

// ErrNotALesson is returned when completing a module that is not a
// reading lesson (games and the tutor complete themselves).
var ErrNotALesson = errors.New("module is not a lesson")

// LessonReward is what completing a reading lesson grants.
type LessonReward struct {
	Achievement progress.AchievementID `json:"achievement,omitempty"`
	XP          int                    `json:"xp"`
}

var lessonRewards = map[progress.ModuleID]LessonReward{
	progress.ModuleBasics:  {Achievement: progress.AchFirstLesson, XP: 20},
	progress.ModuleWallet:  {Achievement: progress.AchSecurityMaster, XP: 20},
	progress.ModuleStories: {Achievement: progress.AchStoryReader, XP: 25},
	progress.ModuleHistory: {},
}

// LessonResult reports a lesson completion.
type LessonResult struct {
	Module progress.ModuleID `json:"module"`
	LessonReward
	// Rewarded is false when the lesson had already been completed.
	Rewarded bool `json:"rewarded"`
}

// Lessons grants the rewards of the reading lessons.
type Lessons struct {
	ledger *progress.Ledger
}

// NewLessons creates the lesson policy for ledger.
func NewLessons(ledger *progress.Ledger) *Lessons {
	return &Lessons{ledger: ledger}
}

// IsLesson reports whether module is completed by reading.
func IsLesson(module progress.ModuleID) bool {
	_, ok := lessonRewards[module]
	return ok
}

// Complete marks a reading lesson done. Rewards are granted only the
// first time.
func (s *Lessons) Complete(module progress.ModuleID) (LessonResult, error) {
	reward, ok := lessonRewards[module]
	if !ok {
		return LessonResult{}, fmt.Errorf("%w: %q", ErrNotALesson, module)
	}

	res := LessonResult{Module: module, LessonReward: reward}
	if !s.ledger.CompleteModule(module) {
		return res, nil
	}
	if reward.Achievement != "" {
		s.ledger.AwardAchievement(reward.Achievement)
	}
	s.ledger.AddXP(reward.XP)
	res.Rewarded = true
	return res, nil
}
