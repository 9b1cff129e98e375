package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptcraft/internal/application/usecase"
)

const leaderboardPrefix = "leaderboard"

// Leaderboard keeps one sorted set per window, keyed by period. Scores are
// XP amounts; members are user IDs. The ledger is the source of truth, so
// any key can be rebuilt.
type Leaderboard struct {
	client *redis.Client
	loc    *time.Location
}

func NewLeaderboard(client *redis.Client, loc *time.Location) *Leaderboard {
	if loc == nil {
		loc = time.UTC
	}
	return &Leaderboard{client: client, loc: loc}
}

// WindowKey formats the sorted-set key for a window at instant at.
func WindowKey(w usecase.Window, at time.Time, loc *time.Location) string {
	local := at.In(loc)
	switch w {
	case usecase.WindowDaily:
		return fmt.Sprintf("%s:daily:%s", leaderboardPrefix, local.Format("2006-01-02"))
	case usecase.WindowWeekly:
		from, _ := usecase.WindowRange(usecase.WindowWeekly, at, loc)
		return fmt.Sprintf("%s:weekly:%s", leaderboardPrefix, from.Format("2006-01-02"))
	case usecase.WindowMonthly:
		return fmt.Sprintf("%s:monthly:%s", leaderboardPrefix, local.Format("2006-01"))
	default:
		return fmt.Sprintf("%s:all_time", leaderboardPrefix)
	}
}

// expiryAt returns when a window's key may be dropped. A daily board vanishes
// at the start of the next local day; weekly and monthly boards outlive their
// window by one full period.
func expiryAt(w usecase.Window, at time.Time, loc *time.Location) time.Time {
	_, to := usecase.WindowRange(w, at, loc)
	switch w {
	case usecase.WindowWeekly:
		return to.AddDate(0, 0, 7)
	case usecase.WindowMonthly:
		return to.AddDate(0, 1, 0)
	default:
		return to
	}
}

// Record adds amount to the user's score in every window. A zero amount is
// skipped: it cannot move any ranking.
func (l *Leaderboard) Record(ctx context.Context, userID uuid.UUID, amount int, at time.Time) error {
	if amount == 0 {
		return nil
	}

	member := userID.String()
	pipe := l.client.TxPipeline()
	for _, w := range []usecase.Window{
		usecase.WindowDaily, usecase.WindowWeekly, usecase.WindowMonthly, usecase.WindowAllTime,
	} {
		key := WindowKey(w, at, l.loc)
		pipe.ZIncrBy(ctx, key, float64(amount), member)
		if w != usecase.WindowAllTime {
			pipe.ExpireAt(ctx, key, expiryAt(w, at, l.loc))
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (l *Leaderboard) Top(ctx context.Context, w usecase.Window, at time.Time, limit int64) ([]usecase.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	key := WindowKey(w, at, l.loc)
	members, err := l.client.ZRevRangeWithScores(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]usecase.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		id, err := uuid.Parse(fmt.Sprint(m.Member))
		if err != nil {
			continue
		}
		entries = append(entries, usecase.LeaderboardEntry{
			UserID: id,
			Score:  int64(m.Score),
			Rank:   int64(i) + 1,
		})
	}
	return entries, nil
}

// Rank returns the user's 1-indexed position, or 0 when absent.
func (l *Leaderboard) Rank(ctx context.Context, w usecase.Window, at time.Time, userID uuid.UUID) (int64, error) {
	rank, err := l.client.ZRevRank(ctx, WindowKey(w, at, l.loc), userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil
}

func (l *Leaderboard) Score(ctx context.Context, w usecase.Window, at time.Time, userID uuid.UUID) (int64, error) {
	score, err := l.client.ZScore(ctx, WindowKey(w, at, l.loc), userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int64(score), nil
}

// Size reports how many users hold a score in the window.
func (l *Leaderboard) Size(ctx context.Context, w usecase.Window, at time.Time) (int64, error) {
	return l.client.ZCard(ctx, WindowKey(w, at, l.loc)).Result()
}

// Rebuild replaces the window's sorted set with ledger-derived sums.
func (l *Leaderboard) Rebuild(ctx context.Context, w usecase.Window, at time.Time, sums map[uuid.UUID]int64) error {
	key := WindowKey(w, at, l.loc)

	members := make([]redis.Z, 0, len(sums))
	for id, total := range sums {
		if total == 0 {
			continue
		}
		members = append(members, redis.Z{Score: float64(total), Member: id.String()})
	}

	pipe := l.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}
	if w != usecase.WindowAllTime {
		pipe.ExpireAt(ctx, key, expiryAt(w, at, l.loc))
	}
	_, err := pipe.Exec(ctx)
	return err
}
