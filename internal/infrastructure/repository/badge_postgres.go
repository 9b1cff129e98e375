package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptcraft/internal/application/usecase"
	"promptcraft/internal/domain"
)

type BadgeRepository struct {
	db *gorm.DB
}

// Catalog returns all badges in position order. Predicate evaluation and
// response ordering both follow it.
func (r *BadgeRepository) Catalog(ctx context.Context) ([]domain.Badge, error) {
	var models []BadgeGorm
	err := r.db.WithContext(ctx).Order("position ASC, slug ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}

	badges := make([]domain.Badge, 0, len(models))
	for i := range models {
		b, err := models[i].ToDomain()
		if err != nil {
			return nil, err
		}
		badges = append(badges, *b)
	}
	return badges, nil
}

func (r *BadgeRepository) HeldIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&UserBadgeGorm{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	held := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		held[id] = true
	}
	return held, nil
}

func (r *BadgeRepository) Insert(ctx context.Context, ub *domain.UserBadge) error {
	model := &UserBadgeGorm{
		UserID:   ub.UserID,
		BadgeID:  ub.BadgeID,
		EarnedAt: ub.EarnedAt,
	}
	err := r.db.WithContext(ctx).Create(model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrBadgeAlreadyHeld
	}
	return err
}

func (r *BadgeRepository) ListEarned(ctx context.Context, userID uuid.UUID) ([]usecase.EarnedBadge, error) {
	type row struct {
		BadgeGorm
		EarnedAt time.Time
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&BadgeGorm{}).
		Select("badges.*, user_badges.earned_at").
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.earned_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	earned := make([]usecase.EarnedBadge, 0, len(rows))
	for i := range rows {
		b, err := rows[i].BadgeGorm.ToDomain()
		if err != nil {
			return nil, err
		}
		earned = append(earned, usecase.EarnedBadge{Badge: *b, EarnedAt: rows[i].EarnedAt})
	}
	return earned, nil
}

func (r *BadgeRepository) MarkNotified(ctx context.Context, userID, badgeID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&UserBadgeGorm{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Update("notified", true).Error
}
