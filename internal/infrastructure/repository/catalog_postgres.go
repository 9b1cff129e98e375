package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptcraft/internal/domain"
)

type LessonRepository struct {
	db *gorm.DB
}

func (r *LessonRepository) List(ctx context.Context) ([]domain.Lesson, error) {
	var models []LessonGorm
	err := r.db.WithContext(ctx).Order("position ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}

	lessons := make([]domain.Lesson, 0, len(models))
	for i := range models {
		lessons = append(lessons, *models[i].ToDomain())
	}
	return lessons, nil
}

func (r *LessonRepository) GetBySlug(ctx context.Context, slug string) (*domain.Lesson, error) {
	var model LessonGorm
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *LessonRepository) RecordCompletion(ctx context.Context, p *domain.LessonProgress) error {
	model := &LessonProgressGorm{
		UserID:      p.UserID,
		LessonID:    p.LessonID,
		CompletedAt: time.Now(),
		TimeMinutes: p.TimeMinutes,
	}
	err := r.db.WithContext(ctx).Create(model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrLessonCompleted
	}
	if err != nil {
		return err
	}
	p.CompletedAt = model.CompletedAt
	return nil
}

type ExerciseRepository struct {
	db *gorm.DB
}

func (r *ExerciseRepository) GetBySlug(ctx context.Context, slug string) (*domain.Exercise, error) {
	var model ExerciseGorm
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain()
}

func (r *ExerciseRepository) HasCorrect(ctx context.Context, userID, exerciseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ExerciseAttemptGorm{}).
		Where("user_id = ? AND exercise_id = ? AND is_correct", userID, exerciseID).
		Count(&count).Error
	return count > 0, err
}

func (r *ExerciseRepository) RecordAttempt(ctx context.Context, a *domain.ExerciseAttempt) error {
	return r.db.WithContext(ctx).Create(&ExerciseAttemptGorm{
		ID:         a.ID,
		UserID:     a.UserID,
		ExerciseID: a.ExerciseID,
		Submission: a.Submission,
		Score:      a.Score,
		IsCorrect:  a.IsCorrect,
	}).Error
}

type PuzzleRepository struct {
	db *gorm.DB
}

func (r *PuzzleRepository) List(ctx context.Context) ([]domain.Puzzle, error) {
	var models []PuzzleGorm
	err := r.db.WithContext(ctx).Order("slug ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}

	puzzles := make([]domain.Puzzle, 0, len(models))
	for i := range models {
		p, err := models[i].ToDomain()
		if err != nil {
			return nil, err
		}
		puzzles = append(puzzles, *p)
	}
	return puzzles, nil
}

func (r *PuzzleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Puzzle, error) {
	var model PuzzleGorm
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPuzzleNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain()
}

func (r *PuzzleRepository) HasSolved(ctx context.Context, userID, puzzleID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PuzzleAttemptGorm{}).
		Where("user_id = ? AND puzzle_id = ? AND is_correct", userID, puzzleID).
		Count(&count).Error
	return count > 0, err
}

func (r *PuzzleRepository) RecordAttempt(ctx context.Context, a *domain.PuzzleAttempt) error {
	submission, err := json.Marshal(a.Submission)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&PuzzleAttemptGorm{
		ID:           a.ID,
		UserID:       a.UserID,
		PuzzleID:     a.PuzzleID,
		Submission:   submission,
		IsCorrect:    a.IsCorrect,
		Stars:        a.Stars,
		XPEarned:     a.XPEarned,
		TimeTakenSec: a.TimeTakenSec,
		HintsUsed:    a.HintsUsed,
	}).Error
}
