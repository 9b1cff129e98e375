package gamification

import (
	"github.com/google/uuid"

	"promptcraft/internal/domain"
)

// Snapshot is the post-mutation aggregate view badge predicates read from.
// Level is carried separately since it is derived, not stored.
type Snapshot struct {
	LessonsCompleted int
	PuzzlesCompleted int
	Puzzles3Stars    int
	CurrentStreak    int
	LongestStreak    int
	TotalXP          int
	Level            int
	DailyGoalStreak  int
	TotalTimeMinutes int
}

// SnapshotOf builds a predicate snapshot from the aggregate and its derived level.
func SnapshotOf(g *domain.Gamification, level int) Snapshot {
	return Snapshot{
		LessonsCompleted: g.LessonsCompleted,
		PuzzlesCompleted: g.PuzzlesCompleted,
		Puzzles3Stars:    g.Puzzles3Stars,
		CurrentStreak:    g.CurrentStreak,
		LongestStreak:    g.LongestStreak,
		TotalXP:          g.TotalXP,
		Level:            level,
		DailyGoalStreak:  g.DailyGoalStreak,
		TotalTimeMinutes: g.TotalTimeMinutes,
	}
}

// Matches evaluates one badge condition against a snapshot. Unknown
// condition types and operators never match; the catalog is authoritative
// and a stale binary must not fail loudly on a newer catalog.
func Matches(cond domain.BadgeCondition, snap Snapshot) bool {
	var actual int
	switch cond.Type {
	case domain.CondLessonsCompleted:
		actual = snap.LessonsCompleted
	case domain.CondPuzzlesCompleted:
		actual = snap.PuzzlesCompleted
	case domain.CondPuzzles3Stars:
		actual = snap.Puzzles3Stars
	case domain.CondCurrentStreak:
		actual = snap.CurrentStreak
	case domain.CondLongestStreak:
		actual = snap.LongestStreak
	case domain.CondTotalXP:
		actual = snap.TotalXP
	case domain.CondLevel:
		actual = snap.Level
	case domain.CondDailyGoalStreak:
		actual = snap.DailyGoalStreak
	case domain.CondTotalTimeMinutes:
		actual = snap.TotalTimeMinutes
	default:
		return false
	}

	switch cond.Operator {
	case "", "gte":
		return actual >= cond.Value
	case "gt":
		return actual > cond.Value
	case "eq":
		return actual == cond.Value
	case "lte":
		return actual <= cond.Value
	case "lt":
		return actual < cond.Value
	default:
		return false
	}
}

// NewlyEarned returns the catalog badges whose predicate passes against snap
// and that are not in held. Order follows the catalog.
func NewlyEarned(catalog []domain.Badge, held map[uuid.UUID]bool, snap Snapshot) []domain.Badge {
	var earned []domain.Badge
	for _, b := range catalog {
		if held[b.ID] {
			continue
		}
		if Matches(b.Condition, snap) {
			earned = append(earned, b)
		}
	}
	return earned
}
