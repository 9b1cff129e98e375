package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
)

// LessonUseCase is the lesson collaborator: it owns the catalog reads and
// the completion gate, and hands XP credit to the award pipeline.
type LessonUseCase struct {
	store    Store
	engine   *AwardUseCase
	lessonXP int
}

func NewLessonUseCase(store Store, engine *AwardUseCase, lessonXP int) *LessonUseCase {
	return &LessonUseCase{store: store, engine: engine, lessonXP: lessonXP}
}

func (uc *LessonUseCase) List(ctx context.Context) ([]domain.Lesson, error) {
	return uc.store.Lessons().List(ctx)
}

func (uc *LessonUseCase) Get(ctx context.Context, slug string) (*domain.Lesson, error) {
	return uc.store.Lessons().GetBySlug(ctx, slug)
}

// Complete records first-time completion and awards the lesson's XP in one
// transaction. A repeat submission hits the (user, lesson) unique constraint
// and surfaces as domain.ErrLessonCompleted without touching any aggregate.
func (uc *LessonUseCase) Complete(ctx context.Context, userID uuid.UUID, slug string, timeMinutes int) (*domain.AwardResult, error) {
	lesson, err := uc.store.Lessons().GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	reward := lesson.XPReward
	if reward <= 0 {
		reward = uc.lessonXP
	}

	return uc.engine.AwardWith(ctx, userID, AwardOptions{
		Source:      domain.SourceLesson,
		BaseAmount:  reward,
		SourceID:    lesson.ID.String(),
		Description: fmt.Sprintf("lesson: %s", lesson.Title),
		TimeMinutes: timeMinutes,
	}, func(ctx context.Context, tx Store) error {
		return tx.Lessons().RecordCompletion(ctx, &domain.LessonProgress{
			UserID:      userID,
			LessonID:    lesson.ID,
			TimeMinutes: timeMinutes,
		})
	})
}
