package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
	"promptcraft/internal/gamification"
	"promptcraft/internal/pkg/logger"
)

const (
	awardAttempts    = 3
	awardBackoff     = 50 * time.Millisecond
	maxBadgeDepth    = 1
	defaultDailyGoal = 50
)

// EngineConfig carries the award pipeline tunables.
type EngineConfig struct {
	Location          *time.Location
	StreakResetHour   int
	StreakBonusRate   float64
	StreakBonusCap    float64
	MaxStreakFreezes  int
	DailyGoalRewardXP int
}

// AwardOptions describes one award request.
type AwardOptions struct {
	Source      domain.XPSource
	BaseAmount  int
	SourceID    string
	Multiplier  float64
	Description string
	// ThreeStars and TimeMinutes let the puzzle and lesson collaborators
	// feed the per-source counters bumped in the same transaction.
	ThreeStars  bool
	TimeMinutes int
}

// AwardUseCase is the XP award pipeline: the single coordinator through
// which every XP credit flows. One call is one transaction; notifications
// are emitted only after commit.
type AwardUseCase struct {
	store    Store
	lb       Leaderboard
	notifier Notifier
	curve    *gamification.LevelCurve
	cfg      EngineConfig
	log      *logger.Logger
	now      func() time.Time
}

func NewAwardUseCase(store Store, lb Leaderboard, notifier Notifier, curve *gamification.LevelCurve, cfg EngineConfig, log *logger.Logger) *AwardUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &AwardUseCase{
		store:    store,
		lb:       lb,
		notifier: notifier,
		curve:    curve,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// collector accumulates everything an award produces before commit so that
// notification emission and notified-flag updates can happen afterwards.
type collector struct {
	events    []domain.Event
	newBadges []domain.Badge
	totalXP   int  // every ledger row in this call, nested awards included
	goalDone  bool // goal crossed anywhere in the call, nested awards included
}

// Award runs the full pipeline for one user. Transient persistence failures
// retry with backoff; validation errors surface immediately.
func (uc *AwardUseCase) Award(ctx context.Context, userID uuid.UUID, opts AwardOptions) (*domain.AwardResult, error) {
	return uc.AwardWith(ctx, userID, opts, nil)
}

// AwardWith additionally runs prepare inside the award transaction, after
// the row lock and before any mutation. Collaborators persist their
// completion gates there so gate and award commit or roll back together.
func (uc *AwardUseCase) AwardWith(ctx context.Context, userID uuid.UUID, opts AwardOptions, prepare func(ctx context.Context, tx Store) error) (*domain.AwardResult, error) {
	if !domain.ValidSource(opts.Source) || opts.Source == domain.SourceStreakBonus {
		return nil, fmt.Errorf("%w: source %q", domain.ErrInvalidAward, opts.Source)
	}
	if opts.Multiplier == 0 {
		opts.Multiplier = 1
	}
	if actual := scaled(opts.BaseAmount, opts.Multiplier); actual < 0 {
		return nil, fmt.Errorf("%w: effective amount %d", domain.ErrInvalidAward, actual)
	}

	var (
		result *domain.AwardResult
		col    *collector
		err    error
	)
	for attempt := 0; attempt < awardAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(awardBackoff << (attempt - 1)):
			}
		}
		result, col, err = uc.runOnce(ctx, userID, opts, prepare)
		if err == nil || !retryable(err) {
			break
		}
		uc.log.Warn("award attempt failed, retrying", "user", userID, "attempt", attempt+1, "err", err)
	}
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAwardFailed, err)
	}

	uc.emit(ctx, userID, col)
	return result, nil
}

func (uc *AwardUseCase) runOnce(ctx context.Context, userID uuid.UUID, opts AwardOptions, prepare func(ctx context.Context, tx Store) error) (*domain.AwardResult, *collector, error) {
	now := uc.now()
	today := gamification.ActivityDate(now, uc.cfg.Location, uc.cfg.StreakResetHour)
	col := &collector{}
	var result *domain.AwardResult

	err := uc.store.InTx(ctx, func(tx Store) error {
		g, err := tx.Gamification().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if prepare != nil {
			if err := prepare(ctx, tx); err != nil {
				return err
			}
		}

		rolloverDaily(g, today)

		res, err := uc.apply(ctx, tx, g, opts, today, 0, col)
		if err != nil {
			return err
		}

		g.UpdatedAt = now
		if err := tx.Gamification().Save(ctx, g); err != nil {
			return err
		}

		// Leaderboards are rebuildable from the ledger, so a cache failure
		// is logged but never aborts the commit.
		if err := uc.lb.Record(ctx, userID, col.totalXP, now); err != nil {
			uc.log.Error("leaderboard update failed", "user", userID, "err", err)
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, col, nil
}

// apply runs steps 3-10 of the pipeline for one award invocation. Nested
// badge-reward awards re-enter here with depth+1 and share the same locked
// aggregate and transaction.
func (uc *AwardUseCase) apply(ctx context.Context, tx Store, g *domain.Gamification, opts AwardOptions, today time.Time, depth int, col *collector) (*domain.AwardResult, error) {
	actual := scaled(opts.BaseAmount, opts.Multiplier)
	if actual < 0 {
		return nil, fmt.Errorf("%w: effective amount %d", domain.ErrInvalidAward, actual)
	}

	prevLevel := g.Level
	completion := domain.CompletionClass(opts.Source)

	rows := []domain.XPTransaction{{
		ID:          uuid.New(),
		UserID:      g.UserID,
		Amount:      actual,
		Source:      opts.Source,
		SourceID:    opts.SourceID,
		Multiplier:  opts.Multiplier,
		Description: opts.Description,
	}}

	if completion && g.CurrentStreak > 1 && uc.cfg.StreakBonusRate > 0 {
		rate := float64(g.CurrentStreak) * uc.cfg.StreakBonusRate
		if rate > uc.cfg.StreakBonusCap {
			rate = uc.cfg.StreakBonusCap
		}
		if bonus := int(math.Floor(float64(actual) * rate)); bonus > 0 {
			rows = append(rows, domain.XPTransaction{
				ID:          uuid.New(),
				UserID:      g.UserID,
				Amount:      bonus,
				Source:      domain.SourceStreakBonus,
				SourceID:    opts.SourceID,
				Multiplier:  1,
				Description: fmt.Sprintf("streak bonus (day %d)", g.CurrentStreak),
			})
		}
	}

	callXP := 0
	for _, r := range rows {
		callXP += r.Amount
	}
	g.TotalXP += callXP
	g.DailyXPEarned += callXP

	if completion {
		switch opts.Source {
		case domain.SourceLesson:
			g.LessonsCompleted++
		case domain.SourcePuzzle:
			g.PuzzlesCompleted++
			if opts.ThreeStars {
				g.Puzzles3Stars++
			}
		}
		g.TotalTimeMinutes += opts.TimeMinutes
	}

	var streak gamification.StreakChange
	if completion {
		streak = gamification.AdvanceStreak(g, today)
	}

	goal := g.DailyXPGoal
	if goal <= 0 {
		goal = defaultDailyGoal
	}
	goalDone := g.DailyXPEarned >= goal && g.DailyXPEarned-callXP < goal
	if goalDone {
		col.goalDone = true
		g.DailyGoalStreak++
		if uc.cfg.DailyGoalRewardXP > 0 && opts.Source != domain.SourceDailyGoal {
			reward := domain.XPTransaction{
				ID:          uuid.New(),
				UserID:      g.UserID,
				Amount:      uc.cfg.DailyGoalRewardXP,
				Source:      domain.SourceDailyGoal,
				SourceID:    today.Format("2006-01-02"),
				Multiplier:  1,
				Description: "daily goal reached",
			}
			rows = append(rows, reward)
			g.TotalXP += reward.Amount
			g.DailyXPEarned += reward.Amount
			callXP += reward.Amount
		}
	}

	g.Level = uc.curve.Level(g.TotalXP)
	leveledUp := g.Level > prevLevel
	if leveledUp {
		gained := g.Level - prevLevel
		g.StreakFreezes += gained
		if g.StreakFreezes > uc.cfg.MaxStreakFreezes {
			g.StreakFreezes = uc.cfg.MaxStreakFreezes
		}
	}

	for i := range rows {
		if err := tx.Ledger().Append(ctx, &rows[i]); err != nil {
			return nil, err
		}
		col.events = append(col.events, domain.NewEvent(domain.EventXPEarned, map[string]interface{}{
			"amount":  rows[i].Amount,
			"source":  rows[i].Source,
			"totalXp": g.TotalXP,
		}))
	}
	col.totalXP += callXP

	if leveledUp {
		col.events = append(col.events, domain.NewEvent(domain.EventLevelUp, map[string]interface{}{
			"level":         g.Level,
			"previousLevel": prevLevel,
		}))
	}

	result := &domain.AwardResult{
		XPEarned:      callXP,
		PreviousLevel: prevLevel,
		NewBadges:     []domain.Badge{},
	}

	if depth < maxBadgeDepth {
		if err := uc.evaluateBadges(ctx, tx, g, today, depth, col, result); err != nil {
			return nil, err
		}
	}

	if goalDone {
		col.events = append(col.events, domain.NewEvent(domain.EventDailyGoalComplete, map[string]interface{}{
			"dailyXpEarned":   g.DailyXPEarned,
			"dailyXpGoal":     goal,
			"dailyGoalStreak": g.DailyGoalStreak,
		}))
	}
	if streak.Changed {
		col.events = append(col.events, domain.NewEvent(domain.EventStreakUpdate, map[string]interface{}{
			"currentStreak": g.CurrentStreak,
			"longestStreak": g.LongestStreak,
		}))
	}

	// Nested awards may have moved the level or crossed the goal; report
	// final state.
	result.TotalXP = g.TotalXP
	result.NewLevel = g.Level
	result.LeveledUp = g.Level > prevLevel
	result.CurrentStreak = g.CurrentStreak
	result.DailyXPEarned = g.DailyXPEarned
	result.DailyGoalJustCompleted = col.goalDone
	return result, nil
}

// evaluateBadges diffs the catalog against held badges on the post-mutation
// snapshot, inserts winners, and feeds badge XP back through the pipeline at
// depth+1 so badge chains terminate.
func (uc *AwardUseCase) evaluateBadges(ctx context.Context, tx Store, g *domain.Gamification, today time.Time, depth int, col *collector, result *domain.AwardResult) error {
	catalog, err := tx.Badges().Catalog(ctx)
	if err != nil {
		return err
	}
	held, err := tx.Badges().HeldIDs(ctx, g.UserID)
	if err != nil {
		return err
	}

	for _, badge := range gamification.NewlyEarned(catalog, held, gamification.SnapshotOf(g, g.Level)) {
		err := tx.Badges().Insert(ctx, &domain.UserBadge{
			UserID:   g.UserID,
			BadgeID:  badge.ID,
			EarnedAt: uc.now(),
		})
		if err != nil {
			return err
		}

		col.newBadges = append(col.newBadges, badge)
		result.NewBadges = append(result.NewBadges, badge)
		col.events = append(col.events, domain.NewEvent(domain.EventBadgeEarned, badge))

		if badge.XPReward > 0 {
			_, err := uc.apply(ctx, tx, g, AwardOptions{
				Source:      domain.SourceBadgeReward,
				BaseAmount:  badge.XPReward,
				SourceID:    badge.ID.String(),
				Multiplier:  1,
				Description: fmt.Sprintf("badge reward: %s", badge.Name),
			}, today, depth+1, col)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// emit pushes the collected events post-commit, in pipeline order. Failures
// are logged and swallowed; committed state is the truth.
func (uc *AwardUseCase) emit(ctx context.Context, userID uuid.UUID, col *collector) {
	for _, ev := range col.events {
		uc.notifier.SendToUser(userID, ev)
	}
	for _, b := range col.newBadges {
		if err := uc.store.Badges().MarkNotified(ctx, userID, b.ID); err != nil {
			uc.log.Warn("failed to mark badge notified", "user", userID, "badge", b.Slug, "err", err)
		}
	}
}

// rolloverDaily resets the daily aggregate the first time a new calendar day
// is observed for this user. The goal streak survives only when the previous
// active day was yesterday and its goal was met.
func rolloverDaily(g *domain.Gamification, today time.Time) {
	if g.LastActivityDate == nil || !g.LastActivityDate.Before(today) {
		return
	}
	goal := g.DailyXPGoal
	if goal <= 0 {
		goal = defaultDailyGoal
	}
	yesterday := today.AddDate(0, 0, -1)
	metYesterday := !g.LastActivityDate.Before(yesterday) && g.DailyXPEarned >= goal
	if !metYesterday {
		g.DailyGoalStreak = 0
	}
	g.DailyXPEarned = 0
}

func scaled(base int, mult float64) int {
	return int(math.Floor(float64(base) * mult))
}

func isDomainErr(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidAward, domain.ErrUnknownUser, domain.ErrUserNotFound,
		domain.ErrLessonCompleted, domain.ErrLessonNotFound, domain.ErrPuzzleNotFound,
		domain.ErrPuzzleSolved, domain.ErrExerciseNotFound, domain.ErrExerciseCompleted,
		domain.ErrChallengeNotFound, errChallengeDone, errChallengeProgressOnly,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// retryable decides whether a failed attempt might succeed on a fresh
// snapshot. A lost badge-insert race retries the whole award; validation and
// business errors never do.
func retryable(err error) bool {
	if errors.Is(err, domain.ErrBadgeAlreadyHeld) {
		return true
	}
	if isDomainErr(err) {
		return false
	}
	return true
}
