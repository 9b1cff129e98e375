package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyChallenge is catalog content: a goal for one calendar day.
type DailyChallenge struct {
	ID       uuid.UUID `json:"id"`
	Date     time.Time `json:"date"`
	Title    string    `json:"title"`
	Target   int       `json:"target"`
	XPReward int       `json:"xpReward"`
}

type UserDailyChallenge struct {
	UserID      uuid.UUID  `json:"userId"`
	ChallengeID uuid.UUID  `json:"challengeId"`
	Progress    int        `json:"progress"`
	CompletedAt *time.Time `json:"completedAt"`
}
