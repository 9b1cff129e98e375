package domain

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	XPReward int       `json:"xpReward"`
	Position int       `json:"position"`
}

// LessonProgress is unique on (UserID, LessonID); that constraint is the
// idempotency gate keeping a re-submitted completion from double-crediting.
type LessonProgress struct {
	UserID      uuid.UUID `json:"userId"`
	LessonID    uuid.UUID `json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
	TimeMinutes int       `json:"timeMinutes"`
}

type Exercise struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Prompt   string    `json:"prompt"`
	Keywords []string  `json:"keywords"`
	XPReward int       `json:"xpReward"`
}

type ExerciseAttempt struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	ExerciseID uuid.UUID `json:"exerciseId"`
	Submission string    `json:"submission"`
	Score      float64   `json:"score"`
	IsCorrect  bool      `json:"isCorrect"`
	CreatedAt  time.Time `json:"createdAt"`
}
