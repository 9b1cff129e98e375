package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptcraft/internal/domain"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func (r *ChallengeRepository) ListForDate(ctx context.Context, date time.Time) ([]domain.DailyChallenge, error) {
	var models []DailyChallengeGorm
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Order("title ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	challenges := make([]domain.DailyChallenge, 0, len(models))
	for i := range models {
		challenges = append(challenges, *models[i].ToDomain())
	}
	return challenges, nil
}

func (r *ChallengeRepository) Get(ctx context.Context, id uuid.UUID) (*domain.DailyChallenge, error) {
	var model DailyChallengeGorm
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetUserChallenge returns nil without error when the user has no progress
// row yet; the usecase starts one from zero.
func (r *ChallengeRepository) GetUserChallenge(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserDailyChallenge, error) {
	var model UserDailyChallengeGorm
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.UserDailyChallenge{
		UserID:      model.UserID,
		ChallengeID: model.ChallengeID,
		Progress:    model.Progress,
		CompletedAt: model.CompletedAt,
	}, nil
}

func (r *ChallengeRepository) SaveUserChallenge(ctx context.Context, uc *domain.UserDailyChallenge) error {
	return r.db.WithContext(ctx).Save(&UserDailyChallengeGorm{
		UserID:      uc.UserID,
		ChallengeID: uc.ChallengeID,
		Progress:    uc.Progress,
		CompletedAt: uc.CompletedAt,
	}).Error
}

type PurchaseRepository struct {
	db *gorm.DB
}

func (r *PurchaseRepository) Record(ctx context.Context, p *domain.StreakFreezePurchase) error {
	model := &StreakFreezePurchaseGorm{
		ID:     p.ID,
		UserID: p.UserID,
		CostXP: p.CostXP,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	p.CreatedAt = model.CreatedAt
	return nil
}

func (r *PurchaseRepository) SumCostByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&StreakFreezePurchaseGorm{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(cost_xp), 0)").
		Scan(&sum).Error
	return sum, err
}
