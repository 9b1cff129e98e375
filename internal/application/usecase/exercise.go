package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
)

// exercisePassScore is the keyword-match fraction a submission must reach.
const exercisePassScore = 0.6

// ExerciseUseCase scores free-form prompt submissions with keyword
// heuristics. XP is credited only on the first correct submission; repeats
// are graded but never re-credited.
type ExerciseUseCase struct {
	store  Store
	engine *AwardUseCase
}

func NewExerciseUseCase(store Store, engine *AwardUseCase) *ExerciseUseCase {
	return &ExerciseUseCase{store: store, engine: engine}
}

// SubmitResult reports the grading outcome alongside any award.
type SubmitResult struct {
	Score     float64             `json:"score"`
	IsCorrect bool                `json:"isCorrect"`
	Awarded   bool                `json:"awarded"`
	Award     *domain.AwardResult `json:"award,omitempty"`
}

func (uc *ExerciseUseCase) Submit(ctx context.Context, userID uuid.UUID, slug, submission string) (*SubmitResult, error) {
	ex, err := uc.store.Exercises().GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	score := keywordScore(ex.Keywords, submission)
	correct := score >= exercisePassScore

	attempt := &domain.ExerciseAttempt{
		ID:         uuid.New(),
		UserID:     userID,
		ExerciseID: ex.ID,
		Submission: submission,
		Score:      score,
		IsCorrect:  correct,
	}

	if !correct {
		if err := uc.store.Exercises().RecordAttempt(ctx, attempt); err != nil {
			return nil, err
		}
		return &SubmitResult{Score: score, IsCorrect: false}, nil
	}

	// The first-correct gate runs inside the award transaction, after the
	// row lock, so two concurrent submissions cannot both credit XP.
	award, err := uc.engine.AwardWith(ctx, userID, AwardOptions{
		Source:      domain.SourceExercise,
		BaseAmount:  ex.XPReward,
		SourceID:    ex.ID.String(),
		Description: fmt.Sprintf("exercise: %s", ex.Slug),
	}, func(ctx context.Context, tx Store) error {
		already, err := tx.Exercises().HasCorrect(ctx, userID, ex.ID)
		if err != nil {
			return err
		}
		if already {
			return domain.ErrExerciseCompleted
		}
		return tx.Exercises().RecordAttempt(ctx, attempt)
	})
	if errors.Is(err, domain.ErrExerciseCompleted) {
		if err := uc.store.Exercises().RecordAttempt(ctx, attempt); err != nil {
			return nil, err
		}
		return &SubmitResult{Score: score, IsCorrect: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Score: score, IsCorrect: true, Awarded: true, Award: award}, nil
}

// keywordScore is the rule-based heuristic: the fraction of expected
// keywords present in the submission, case-insensitive.
func keywordScore(keywords []string, submission string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(submission)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}
