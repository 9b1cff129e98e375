package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"promptcraft/internal/pkg/logger"
)

// ReconcileUseCase is the periodic audit: for every user, the ledger sum
// minus recorded freeze purchases must equal total_xp. Mismatches are
// reportable alerts, never blocking.
type ReconcileUseCase struct {
	store Store
	log   *logger.Logger
}

func NewReconcileUseCase(store Store, log *logger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{store: store, log: log}
}

// Drift describes one user whose aggregate disagrees with the ledger.
type Drift struct {
	UserID    uuid.UUID `json:"userId"`
	TotalXP   int64     `json:"totalXp"`
	LedgerNet int64     `json:"ledgerNet"`
}

func (uc *ReconcileUseCase) Run(ctx context.Context) ([]Drift, error) {
	ids, err := uc.store.Gamification().ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return drifts, ctx.Err()
		default:
		}

		g, err := uc.store.Gamification().Get(ctx, id)
		if err != nil {
			uc.log.Warn("reconcile: aggregate read failed", "user", id, "err", err)
			continue
		}
		earned, err := uc.store.Ledger().SumByUser(ctx, id)
		if err != nil {
			uc.log.Warn("reconcile: ledger sum failed", "user", id, "err", err)
			continue
		}
		spent, err := uc.store.Purchases().SumCostByUser(ctx, id)
		if err != nil {
			uc.log.Warn("reconcile: purchase sum failed", "user", id, "err", err)
			continue
		}

		net := earned - spent
		if net != int64(g.TotalXP) {
			uc.log.Error("reconcile: aggregate drift", "user", id, "totalXp", g.TotalXP, "ledgerNet", net)
			drifts = append(drifts, Drift{UserID: id, TotalXP: int64(g.TotalXP), LedgerNet: net})
		}
	}
	return drifts, nil
}

// RunPeriodic reconciles on a fixed interval until ctx is cancelled.
func (uc *ReconcileUseCase) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.Run(ctx); err != nil && ctx.Err() == nil {
				uc.log.Error("reconciliation run failed", "err", err)
			}
		}
	}
}
