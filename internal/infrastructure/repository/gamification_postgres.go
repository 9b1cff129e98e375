package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"promptcraft/internal/domain"
)

type GamificationRepository struct {
	db *gorm.DB
}

func (r *GamificationRepository) Create(ctx context.Context, g *domain.Gamification) error {
	return r.db.WithContext(ctx).Create(gamificationModel(g)).Error
}

func (r *GamificationRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Gamification, error) {
	var model GamificationGorm
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetForUpdate takes SELECT ... FOR UPDATE on the row. Callers must be
// inside InTx or the lock is released immediately.
func (r *GamificationRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Gamification, error) {
	var model GamificationGorm
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GamificationRepository) Save(ctx context.Context, g *domain.Gamification) error {
	return r.db.WithContext(ctx).Save(gamificationModel(g)).Error
}

func (r *GamificationRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&GamificationGorm{}).Pluck("user_id", &ids).Error
	return ids, err
}
