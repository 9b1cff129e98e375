package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
	"promptcraft/internal/gamification"
)

// PuzzleUseCase grades submissions with the puzzle evaluator and feeds
// first-time solves into the award pipeline.
type PuzzleUseCase struct {
	store   Store
	engine  *AwardUseCase
	rewards map[domain.PuzzleDifficulty]int
}

// NewPuzzleUseCase takes per-difficulty fallback rewards for puzzles whose
// catalog row carries no base reward of its own.
func NewPuzzleUseCase(store Store, engine *AwardUseCase, rewards map[domain.PuzzleDifficulty]int) *PuzzleUseCase {
	return &PuzzleUseCase{store: store, engine: engine, rewards: rewards}
}

func (uc *PuzzleUseCase) List(ctx context.Context) ([]domain.Puzzle, error) {
	return uc.store.Puzzles().List(ctx)
}

func (uc *PuzzleUseCase) Get(ctx context.Context, slug string) (*domain.Puzzle, error) {
	return uc.store.Puzzles().GetBySlug(ctx, slug)
}

// Submit always records the attempt. Only the first correct solve earns XP;
// later correct solves return the graded result with a nil award.
func (uc *PuzzleUseCase) Submit(ctx context.Context, userID uuid.UUID, slug string, submission map[string]string, timeTakenSec, hintsUsed int) (*domain.AwardResult, error) {
	puzzle, err := uc.store.Puzzles().GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if puzzle.BaseReward <= 0 {
		puzzle.BaseReward = uc.rewards[puzzle.Difficulty]
	}

	res := gamification.EvaluatePuzzle(puzzle, submission, timeTakenSec, hintsUsed)
	attempt := &domain.PuzzleAttempt{
		ID:           uuid.New(),
		UserID:       userID,
		PuzzleID:     puzzle.ID,
		Submission:   submission,
		IsCorrect:    res.IsCorrect,
		Stars:        res.Stars,
		XPEarned:     res.XPEarned,
		TimeTakenSec: timeTakenSec,
		HintsUsed:    hintsUsed,
	}

	if !res.IsCorrect {
		attempt.XPEarned = 0
		if err := uc.store.Puzzles().RecordAttempt(ctx, attempt); err != nil {
			return nil, err
		}
		return &domain.AwardResult{PuzzleResult: &res}, nil
	}

	// The first-solve gate runs inside the award transaction, after the row
	// lock, so two concurrent solves cannot both credit XP.
	award, err := uc.engine.AwardWith(ctx, userID, AwardOptions{
		Source:      domain.SourcePuzzle,
		BaseAmount:  res.XPEarned,
		SourceID:    puzzle.ID.String(),
		Description: fmt.Sprintf("puzzle: %s", puzzle.Title),
		ThreeStars:  res.Stars == 3,
		TimeMinutes: timeTakenSec / 60,
	}, func(ctx context.Context, tx Store) error {
		solved, err := tx.Puzzles().HasSolved(ctx, userID, puzzle.ID)
		if err != nil {
			return err
		}
		if solved {
			return domain.ErrPuzzleSolved
		}
		return tx.Puzzles().RecordAttempt(ctx, attempt)
	})
	if errors.Is(err, domain.ErrPuzzleSolved) {
		attempt.XPEarned = 0
		if err := uc.store.Puzzles().RecordAttempt(ctx, attempt); err != nil {
			return nil, err
		}
		return &domain.AwardResult{PuzzleResult: &res}, nil
	}
	if err != nil {
		return nil, err
	}
	award.PuzzleResult = &res
	return award, nil
}
