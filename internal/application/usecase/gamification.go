package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
	"promptcraft/internal/gamification"
	"promptcraft/internal/pkg/logger"
)

// GamificationUseCase serves the read side of the engine plus the streak
// freeze and daily-goal operations that mutate outside the award pipeline.
type GamificationUseCase struct {
	store        Store
	lb           Leaderboard
	notifier     Notifier
	curve        *gamification.LevelCurve
	cfg          EngineConfig
	freezeCostXP int
	log          *logger.Logger
	now          func() time.Time
}

func NewGamificationUseCase(store Store, lb Leaderboard, notifier Notifier, curve *gamification.LevelCurve, cfg EngineConfig, freezeCostXP int, log *logger.Logger) *GamificationUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &GamificationUseCase{
		store:        store,
		lb:           lb,
		notifier:     notifier,
		curve:        curve,
		cfg:          cfg,
		freezeCostXP: freezeCostXP,
		log:          log,
		now:          time.Now,
	}
}

// Stats is the full gamification dashboard for one user. Progress carries a
// json key of its own so its level field cannot collide with the aggregate's.
type Stats struct {
	domain.Gamification
	Progress    gamification.LevelInfo `json:"progress"`
	AllTimeRank int64                  `json:"allTimeRank"`
}

func (uc *GamificationUseCase) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	g, err := uc.store.Gamification().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	rank, err := uc.lb.Rank(ctx, WindowAllTime, uc.now(), userID)
	if err != nil {
		uc.log.Warn("rank lookup failed", "user", userID, "err", err)
		rank = 0
	}
	return &Stats{
		Gamification: *g,
		Progress:     uc.curve.Compute(g.TotalXP),
		AllTimeRank:  rank,
	}, nil
}

func (uc *GamificationUseCase) History(ctx context.Context, userID uuid.UUID, page, perPage int) ([]domain.XPTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return uc.store.Ledger().History(ctx, userID, page, perPage)
}

// BadgeListing splits the catalog into earned and still-locked badges.
// Hidden badges stay invisible until earned.
type BadgeListing struct {
	Earned []EarnedBadge  `json:"earned"`
	Locked []domain.Badge `json:"locked"`
}

func (uc *GamificationUseCase) Badges(ctx context.Context, userID uuid.UUID) (*BadgeListing, error) {
	catalog, err := uc.store.Badges().Catalog(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := uc.store.Badges().ListEarned(ctx, userID)
	if err != nil {
		return nil, err
	}

	held := make(map[uuid.UUID]bool, len(earned))
	for _, e := range earned {
		held[e.Badge.ID] = true
	}
	listing := &BadgeListing{Earned: earned, Locked: []domain.Badge{}}
	for _, b := range catalog {
		if !held[b.ID] && !b.IsHidden {
			listing.Locked = append(listing.Locked, b)
		}
	}
	return listing, nil
}

// StreakInfo is the streak widget payload.
type StreakInfo struct {
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	StreakFreezes    int        `json:"streakFreezes"`
	LastActivityDate *time.Time `json:"lastActivityDate"`
	ActiveToday      bool       `json:"activeToday"`
}

func (uc *GamificationUseCase) Streak(ctx context.Context, userID uuid.UUID) (*StreakInfo, error) {
	g, err := uc.store.Gamification().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := gamification.ActivityDate(uc.now(), uc.cfg.Location, uc.cfg.StreakResetHour)
	return &StreakInfo{
		CurrentStreak:    g.CurrentStreak,
		LongestStreak:    g.LongestStreak,
		StreakFreezes:    g.StreakFreezes,
		LastActivityDate: g.LastActivityDate,
		ActiveToday:      g.LastActivityDate != nil && !g.LastActivityDate.Before(today),
	}, nil
}

// UseFreeze manually covers today with a streak freeze.
func (uc *GamificationUseCase) UseFreeze(ctx context.Context, userID uuid.UUID) (*StreakInfo, error) {
	today := gamification.ActivityDate(uc.now(), uc.cfg.Location, uc.cfg.StreakResetHour)
	var info *StreakInfo
	err := uc.store.InTx(ctx, func(tx Store) error {
		g, err := tx.Gamification().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := gamification.UseFreeze(g, today); err != nil {
			return err
		}
		g.UpdatedAt = uc.now()
		if err := tx.Gamification().Save(ctx, g); err != nil {
			return err
		}
		info = &StreakInfo{
			CurrentStreak:    g.CurrentStreak,
			LongestStreak:    g.LongestStreak,
			StreakFreezes:    g.StreakFreezes,
			LastActivityDate: g.LastActivityDate,
			ActiveToday:      true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.SendToUser(userID, domain.NewEvent(domain.EventStreakUpdate, info))
	return info, nil
}

// PurchaseFreeze trades XP for a streak freeze. The spend is recorded in
// streak_freeze_purchases so reconciliation can account for the ledger gap.
func (uc *GamificationUseCase) PurchaseFreeze(ctx context.Context, userID uuid.UUID) (*StreakInfo, error) {
	var info *StreakInfo
	err := uc.store.InTx(ctx, func(tx Store) error {
		g, err := tx.Gamification().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if g.StreakFreezes >= uc.cfg.MaxStreakFreezes {
			return domain.ErrFreezeLimitReached
		}
		if g.TotalXP < uc.freezeCostXP {
			return domain.ErrNotEnoughXP
		}

		g.TotalXP -= uc.freezeCostXP
		g.Level = uc.curve.Level(g.TotalXP)
		g.StreakFreezes++
		g.UpdatedAt = uc.now()

		if err := tx.Purchases().Record(ctx, &domain.StreakFreezePurchase{
			ID:     uuid.New(),
			UserID: userID,
			CostXP: uc.freezeCostXP,
		}); err != nil {
			return err
		}
		if err := tx.Gamification().Save(ctx, g); err != nil {
			return err
		}
		info = &StreakInfo{
			CurrentStreak:    g.CurrentStreak,
			LongestStreak:    g.LongestStreak,
			StreakFreezes:    g.StreakFreezes,
			LastActivityDate: g.LastActivityDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// SetDailyGoal updates the user's daily XP target.
func (uc *GamificationUseCase) SetDailyGoal(ctx context.Context, userID uuid.UUID, goal int) error {
	if goal <= 0 {
		return domain.ErrInvalidAward
	}
	return uc.store.InTx(ctx, func(tx Store) error {
		g, err := tx.Gamification().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		g.DailyXPGoal = goal
		g.UpdatedAt = uc.now()
		return tx.Gamification().Save(ctx, g)
	})
}

// RankedEntry joins a leaderboard row with display profile data.
type RankedEntry struct {
	Rank     int64     `json:"rank"`
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Level    int       `json:"level"`
	Score    int64     `json:"score"`
}

// LeaderboardView is the ranking page plus the requesting user's own slot.
type LeaderboardView struct {
	Window       Window        `json:"window"`
	Entries      []RankedEntry `json:"entries"`
	Participants int64         `json:"participants"`
	OwnRank      int64         `json:"ownRank"`
	OwnScore     int64         `json:"ownScore"`
}

func (uc *GamificationUseCase) Leaderboard(ctx context.Context, w Window, userID uuid.UUID, limit int64) (*LeaderboardView, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	now := uc.now()
	top, err := uc.lb.Top(ctx, w, now, limit)
	if err != nil {
		return nil, err
	}

	view := &LeaderboardView{Window: w, Entries: make([]RankedEntry, 0, len(top))}
	for _, e := range top {
		entry := RankedEntry{Rank: e.Rank, UserID: e.UserID, Score: e.Score}
		if u, err := uc.store.Users().GetByID(ctx, e.UserID); err == nil {
			entry.Username = u.Username
		}
		if g, err := uc.store.Gamification().Get(ctx, e.UserID); err == nil {
			entry.Level = g.Level
		}
		view.Entries = append(view.Entries, entry)
	}

	if size, err := uc.lb.Size(ctx, w, now); err == nil {
		view.Participants = size
	}
	if rank, err := uc.lb.Rank(ctx, w, now, userID); err == nil {
		view.OwnRank = rank
	}
	if score, err := uc.lb.Score(ctx, w, now, userID); err == nil {
		view.OwnScore = score
	}
	return view, nil
}

// RebuildLeaderboard re-derives one window's scores from the ledger. Used
// for recovery and bootstrap; idempotent.
func (uc *GamificationUseCase) RebuildLeaderboard(ctx context.Context, w Window) error {
	now := uc.now()
	from, to := WindowRange(w, now, uc.cfg.Location)
	sums, err := uc.store.Ledger().SumsInRange(ctx, from, to)
	if err != nil {
		return err
	}
	if err := uc.lb.Rebuild(ctx, w, now, sums); err != nil {
		return err
	}
	uc.notifier.Broadcast(domain.NewEvent(domain.EventLeaderboardUpdate, map[string]interface{}{
		"window": w,
	}), nil)
	uc.log.Info("leaderboard rebuilt", "window", w, "users", len(sums))
	return nil
}
