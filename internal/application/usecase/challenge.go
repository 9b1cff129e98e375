package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
	"promptcraft/internal/gamification"
)

// Control-flow sentinels for the progress hook: they abort the award without
// surfacing as request errors.
var (
	errChallengeDone         = errors.New("challenge already completed")
	errChallengeProgressOnly = errors.New("challenge progress below target")
)

// ChallengeUseCase tracks per-user daily challenge progress. Crossing the
// target awards the challenge's XP through the pipeline, once.
type ChallengeUseCase struct {
	store  Store
	engine *AwardUseCase
	cfg    EngineConfig
	now    func() time.Time
}

func NewChallengeUseCase(store Store, engine *AwardUseCase, cfg EngineConfig) *ChallengeUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ChallengeUseCase{store: store, engine: engine, cfg: cfg, now: time.Now}
}

// TodayStatus pairs a challenge with the user's progress on it.
type TodayStatus struct {
	Challenge domain.DailyChallenge `json:"challenge"`
	Progress  int                   `json:"progress"`
	Completed bool                  `json:"completed"`
}

func (uc *ChallengeUseCase) Today(ctx context.Context, userID uuid.UUID) ([]TodayStatus, error) {
	today := gamification.ActivityDate(uc.now(), uc.cfg.Location, uc.cfg.StreakResetHour)
	challenges, err := uc.store.Challenges().ListForDate(ctx, today)
	if err != nil {
		return nil, err
	}

	statuses := make([]TodayStatus, 0, len(challenges))
	for _, ch := range challenges {
		status := TodayStatus{Challenge: ch}
		if row, err := uc.store.Challenges().GetUserChallenge(ctx, userID, ch.ID); err == nil && row != nil {
			status.Progress = row.Progress
			status.Completed = row.CompletedAt != nil
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Progress advances the user's counter by delta. The completion flip runs
// inside the award transaction, so flip and XP commit or roll back together
// and the row lock picks a single winner under concurrency.
func (uc *ChallengeUseCase) Progress(ctx context.Context, userID, challengeID uuid.UUID, delta int) (*TodayStatus, *domain.AwardResult, error) {
	if delta <= 0 {
		return nil, nil, fmt.Errorf("%w: challenge delta must be positive", domain.ErrInvalidAward)
	}
	ch, err := uc.store.Challenges().Get(ctx, challengeID)
	if err != nil {
		return nil, nil, err
	}

	var row *domain.UserDailyChallenge
	advance := func(ctx context.Context, tx Store) error {
		var err error
		row, err = tx.Challenges().GetUserChallenge(ctx, userID, challengeID)
		if err != nil {
			return err
		}
		if row == nil {
			row = &domain.UserDailyChallenge{UserID: userID, ChallengeID: challengeID}
		}
		if row.CompletedAt != nil {
			return errChallengeDone
		}
		row.Progress += delta
		if row.Progress < ch.Target {
			return errChallengeProgressOnly
		}
		now := uc.now()
		row.CompletedAt = &now
		return tx.Challenges().SaveUserChallenge(ctx, row)
	}

	award, err := uc.engine.AwardWith(ctx, userID, AwardOptions{
		Source:      domain.SourceChallenge,
		BaseAmount:  ch.XPReward,
		SourceID:    ch.ID.String(),
		Description: fmt.Sprintf("daily challenge: %s", ch.Title),
	}, advance)
	switch {
	case errors.Is(err, errChallengeDone):
		return &TodayStatus{Challenge: *ch, Progress: row.Progress, Completed: true}, nil, nil
	case errors.Is(err, errChallengeProgressOnly):
		if err := uc.store.InTx(ctx, func(tx Store) error {
			return tx.Challenges().SaveUserChallenge(ctx, row)
		}); err != nil {
			return nil, nil, err
		}
		return &TodayStatus{Challenge: *ch, Progress: row.Progress, Completed: false}, nil, nil
	case err != nil:
		return nil, nil, err
	}
	return &TodayStatus{Challenge: *ch, Progress: row.Progress, Completed: true}, award, nil
}
