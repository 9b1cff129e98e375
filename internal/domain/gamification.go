package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gamification is the engine's primary aggregate, 1:1 with a user. All
// mutations go through the award pipeline under a row lock.
type Gamification struct {
	UserID           uuid.UUID  `json:"userId"`
	TotalXP          int        `json:"totalXp"`
	Level            int        `json:"level"`
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	StreakFreezes    int        `json:"streakFreezes"`
	LastActivityDate *time.Time `json:"lastActivityDate"`
	LessonsCompleted int        `json:"lessonsCompleted"`
	PuzzlesCompleted int        `json:"puzzlesCompleted"`
	Puzzles3Stars    int        `json:"puzzles3Stars"`
	TotalTimeMinutes int        `json:"totalTimeMinutes"`
	DailyXPGoal      int        `json:"dailyXpGoal"`
	DailyXPEarned    int        `json:"dailyXpEarned"`
	DailyGoalStreak  int        `json:"dailyGoalStreak"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// XPSource tags a ledger row with what produced it.
type XPSource string

const (
	SourceLesson      XPSource = "LESSON"
	SourcePuzzle      XPSource = "PUZZLE"
	SourceExercise    XPSource = "EXERCISE"
	SourceDailyGoal   XPSource = "DAILY_GOAL"
	SourceStreakBonus XPSource = "STREAK_BONUS"
	SourceBadgeReward XPSource = "BADGE_REWARD"
	SourceChallenge   XPSource = "CHALLENGE"
	SourceAchievement XPSource = "ACHIEVEMENT"
)

// ValidSource reports whether s is one of the recognized ledger sources.
func ValidSource(s XPSource) bool {
	switch s {
	case SourceLesson, SourcePuzzle, SourceExercise, SourceDailyGoal,
		SourceStreakBonus, SourceBadgeReward, SourceChallenge, SourceAchievement:
		return true
	}
	return false
}

// CompletionClass reports whether s represents new user activity. Only
// completion-class sources advance the streak and bump per-source counters;
// badge rewards and streak bonuses are derived credit.
func CompletionClass(s XPSource) bool {
	switch s {
	case SourceLesson, SourcePuzzle, SourceExercise, SourceChallenge, SourceDailyGoal:
		return true
	}
	return false
}

// AwardResult is what one award pipeline invocation reports back to callers.
type AwardResult struct {
	XPEarned               int           `json:"xpEarned"`
	TotalXP                int           `json:"totalXp"`
	PreviousLevel          int           `json:"previousLevel"`
	NewLevel               int           `json:"newLevel"`
	LeveledUp              bool          `json:"leveledUp"`
	CurrentStreak          int           `json:"currentStreak"`
	DailyXPEarned          int           `json:"dailyXpEarned"`
	DailyGoalJustCompleted bool          `json:"dailyGoalJustCompleted"`
	NewBadges              []Badge       `json:"newBadges"`
	PuzzleResult           *PuzzleResult `json:"puzzleResult,omitempty"`
}

// StreakFreezePurchase records a freeze bought with XP. Purchases are the
// one sanctioned way total_xp can drift below the ledger sum, so the
// reconciliation job subtracts them.
type StreakFreezePurchase struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CostXP    int
	CreatedAt time.Time
}
