package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptcraft/internal/domain"
)

type LedgerRepository struct {
	db *gorm.DB
}

func (r *LedgerRepository) Append(ctx context.Context, tx *domain.XPTransaction) error {
	model := &XPTransactionGorm{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Source:      string(tx.Source),
		SourceID:    tx.SourceID,
		Multiplier:  tx.Multiplier,
		Description: tx.Description,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	tx.CreatedAt = model.CreatedAt
	return nil
}

func (r *LedgerRepository) History(ctx context.Context, userID uuid.UUID, page, perPage int) ([]domain.XPTransaction, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&XPTransactionGorm{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []XPTransactionGorm
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	rows := make([]domain.XPTransaction, 0, len(models))
	for i := range models {
		rows = append(rows, *models[i].ToDomain())
	}
	return rows, total, nil
}

func (r *LedgerRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&XPTransactionGorm{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *LedgerRepository) SumsInRange(ctx context.Context, from, to time.Time) (map[uuid.UUID]int64, error) {
	type row struct {
		UserID uuid.UUID
		Total  int64
	}

	q := r.db.WithContext(ctx).Model(&XPTransactionGorm{}).
		Select("user_id, SUM(amount) AS total").
		Group("user_id")
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		sums[r.UserID] = r.Total
	}
	return sums, nil
}
