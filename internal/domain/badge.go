package domain

import (
	"time"

	"github.com/google/uuid"
)

type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// ConditionType is the closed set of badge predicate inputs. A type outside
// this set deserializes fine but never matches, so a stale binary running
// against a newer catalog stays safe.
type ConditionType string

const (
	CondLessonsCompleted ConditionType = "lessons_completed"
	CondPuzzlesCompleted ConditionType = "puzzles_completed"
	CondPuzzles3Stars    ConditionType = "puzzles_3_stars"
	CondCurrentStreak    ConditionType = "current_streak"
	CondLongestStreak    ConditionType = "longest_streak"
	CondTotalXP          ConditionType = "total_xp"
	CondLevel            ConditionType = "level"
	CondDailyGoalStreak  ConditionType = "daily_goal_streak"
	CondTotalTimeMinutes ConditionType = "total_time_minutes"
)

// BadgeCondition is the tagged predicate shipped with the badge catalog.
// Operator defaults to "gte" when empty.
type BadgeCondition struct {
	Type     ConditionType `json:"type"`
	Value    int           `json:"value"`
	Operator string        `json:"operator,omitempty"`
}

type Badge struct {
	ID          uuid.UUID      `json:"id"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Category    string         `json:"category"`
	Rarity      BadgeRarity    `json:"rarity"`
	Condition   BadgeCondition `json:"condition"`
	XPReward    int            `json:"xpReward"`
	IsHidden    bool           `json:"isHidden"`
}

// UserBadge marks a badge as earned. Unique on (UserID, BadgeID).
type UserBadge struct {
	UserID   uuid.UUID `json:"userId"`
	BadgeID  uuid.UUID `json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
	Notified bool      `json:"notified"`
}
