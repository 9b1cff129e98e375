package gamification

import (
	"time"

	"promptcraft/internal/domain"
)

// ActivityDate maps a wall-clock instant to the calendar day it counts
// toward. Activity before resetHour belongs to the previous day, so a 03:00
// session with a 04:00 reset still extends yesterday's streak.
func ActivityDate(now time.Time, loc *time.Location, resetHour int) time.Time {
	local := now.In(loc).Add(-time.Duration(resetHour) * time.Hour)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// StreakChange reports what AdvanceStreak did to the aggregate.
type StreakChange struct {
	Changed   bool
	Continued bool
	Reset     bool
}

// AdvanceStreak applies one activity on day today to g's streak state.
// today must come from ActivityDate so day boundaries honor the reset hour.
func AdvanceStreak(g *domain.Gamification, today time.Time) StreakChange {
	defer func() {
		t := today
		g.LastActivityDate = &t
	}()

	switch {
	case g.LastActivityDate == nil:
		g.CurrentStreak = 1
		if g.LongestStreak < 1 {
			g.LongestStreak = 1
		}
		return StreakChange{Changed: true}
	case sameDay(*g.LastActivityDate, today):
		return StreakChange{}
	case sameDay(g.LastActivityDate.AddDate(0, 0, 1), today):
		g.CurrentStreak++
		if g.CurrentStreak > g.LongestStreak {
			g.LongestStreak = g.CurrentStreak
		}
		return StreakChange{Changed: true, Continued: true}
	default:
		g.CurrentStreak = 1
		if g.LongestStreak < 1 {
			g.LongestStreak = 1
		}
		return StreakChange{Changed: true, Reset: true}
	}
}

// UseFreeze consumes one streak freeze, marking today as covered without
// touching the streak counter. Covers a single day: if the last activity is
// older than yesterday the streak will still reset on the next activity.
func UseFreeze(g *domain.Gamification, today time.Time) error {
	if g.LastActivityDate != nil && !g.LastActivityDate.Before(today) {
		return domain.ErrAlreadyActiveToday
	}
	if g.StreakFreezes <= 0 {
		return domain.ErrNoFreezesAvailable
	}
	g.StreakFreezes--
	t := today
	g.LastActivityDate = &t
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
