package domain

import (
	"time"

	"github.com/google/uuid"
)

type PuzzleDifficulty string

const (
	PuzzleEasy   PuzzleDifficulty = "easy"
	PuzzleMedium PuzzleDifficulty = "medium"
	PuzzleHard   PuzzleDifficulty = "hard"
)

// Puzzle is a logic grid. Solution maps each category item to its paired
// item; a submission is graded pair by pair against it.
type Puzzle struct {
	ID           uuid.UUID         `json:"id"`
	Slug         string            `json:"slug"`
	Title        string            `json:"title"`
	Difficulty   PuzzleDifficulty  `json:"difficulty"`
	Categories   []string          `json:"categories"`
	Solution     map[string]string `json:"-"`
	BaseReward   int               `json:"baseReward"`
	TimeLimitSec int               `json:"timeLimitSec"`
}

type PuzzleAttempt struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"userId"`
	PuzzleID     uuid.UUID         `json:"puzzleId"`
	Submission   map[string]string `json:"submission"`
	IsCorrect    bool              `json:"isCorrect"`
	Stars        int               `json:"stars"`
	XPEarned     int               `json:"xpEarned"`
	TimeTakenSec int               `json:"timeTakenSec"`
	HintsUsed    int               `json:"hintsUsed"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// PuzzleResult is the puzzle evaluator's verdict on one submission.
type PuzzleResult struct {
	IsCorrect    bool `json:"isCorrect"`
	Stars        int  `json:"stars"`
	XPEarned     int  `json:"xpEarned"`
	CorrectPairs int  `json:"correctPairs"`
	TotalPairs   int  `json:"totalPairs"`
	TimeBonus    int  `json:"timeBonus"`
	HintsPenalty int  `json:"hintsPenalty"`
}
