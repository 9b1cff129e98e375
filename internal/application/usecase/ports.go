package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
)

// Store is the persistence port. InTx runs fn against a Store bound to a
// single database transaction; repository errors surface as domain errors.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	Users() UserRepo
	Gamification() GamificationRepo
	Ledger() LedgerRepo
	Badges() BadgeRepo
	Lessons() LessonRepo
	Exercises() ExerciseRepo
	Puzzles() PuzzleRepo
	Challenges() ChallengeRepo
	Purchases() PurchaseRepo
}

type UserRepo interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type GamificationRepo interface {
	Create(ctx context.Context, g *domain.Gamification) error
	Get(ctx context.Context, userID uuid.UUID) (*domain.Gamification, error)
	// GetForUpdate loads the row under an exclusive lock, serializing
	// concurrent awards for one user.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Gamification, error)
	Save(ctx context.Context, g *domain.Gamification) error
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type LedgerRepo interface {
	Append(ctx context.Context, tx *domain.XPTransaction) error
	History(ctx context.Context, userID uuid.UUID, page, perPage int) ([]domain.XPTransaction, int64, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// SumsInRange sums ledger amounts per user for [from, to). A zero "to"
	// means unbounded, which is what the all-time rebuild uses.
	SumsInRange(ctx context.Context, from, to time.Time) (map[uuid.UUID]int64, error)
}

// EarnedBadge pairs a catalog badge with when the user earned it.
type EarnedBadge struct {
	Badge    domain.Badge `json:"badge"`
	EarnedAt time.Time    `json:"earnedAt"`
}

type BadgeRepo interface {
	Catalog(ctx context.Context) ([]domain.Badge, error)
	HeldIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
	// Insert returns domain.ErrBadgeAlreadyHeld when the (user, badge)
	// unique constraint rejects the row.
	Insert(ctx context.Context, ub *domain.UserBadge) error
	ListEarned(ctx context.Context, userID uuid.UUID) ([]EarnedBadge, error)
	MarkNotified(ctx context.Context, userID, badgeID uuid.UUID) error
}

type LessonRepo interface {
	List(ctx context.Context) ([]domain.Lesson, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Lesson, error)
	// RecordCompletion returns domain.ErrLessonCompleted when the
	// (user, lesson) unique constraint rejects the row.
	RecordCompletion(ctx context.Context, p *domain.LessonProgress) error
}

type ExerciseRepo interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Exercise, error)
	HasCorrect(ctx context.Context, userID, exerciseID uuid.UUID) (bool, error)
	RecordAttempt(ctx context.Context, a *domain.ExerciseAttempt) error
}

type PuzzleRepo interface {
	List(ctx context.Context) ([]domain.Puzzle, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Puzzle, error)
	HasSolved(ctx context.Context, userID, puzzleID uuid.UUID) (bool, error)
	RecordAttempt(ctx context.Context, a *domain.PuzzleAttempt) error
}

type ChallengeRepo interface {
	ListForDate(ctx context.Context, date time.Time) ([]domain.DailyChallenge, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.DailyChallenge, error)
	GetUserChallenge(ctx context.Context, userID, challengeID uuid.UUID) (*domain.UserDailyChallenge, error)
	SaveUserChallenge(ctx context.Context, uc *domain.UserDailyChallenge) error
}

type PurchaseRepo interface {
	Record(ctx context.Context, p *domain.StreakFreezePurchase) error
	SumCostByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Window identifies one leaderboard aggregation period.
type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowAllTime Window = "all_time"
)

func ParseWindow(s string) (Window, bool) {
	switch Window(s) {
	case WindowDaily, WindowWeekly, WindowMonthly, WindowAllTime:
		return Window(s), true
	}
	return "", false
}

// LeaderboardEntry is one (user, score) pair in descending score order.
type LeaderboardEntry struct {
	UserID uuid.UUID `json:"userId"`
	Score  int64     `json:"score"`
	Rank   int64     `json:"rank"`
}

// Leaderboard is the sorted-set port. Record touches all four windows.
type Leaderboard interface {
	Record(ctx context.Context, userID uuid.UUID, amount int, at time.Time) error
	Top(ctx context.Context, w Window, at time.Time, limit int64) ([]LeaderboardEntry, error)
	Rank(ctx context.Context, w Window, at time.Time, userID uuid.UUID) (int64, error)
	Score(ctx context.Context, w Window, at time.Time, userID uuid.UUID) (int64, error)
	Size(ctx context.Context, w Window, at time.Time) (int64, error)
	Rebuild(ctx context.Context, w Window, at time.Time, sums map[uuid.UUID]int64) error
}

// Notifier is the push port. SendToUser reports how many live channels the
// event reached; delivery is best-effort and never blocks a transaction.
type Notifier interface {
	SendToUser(userID uuid.UUID, ev domain.Event) int
	Broadcast(ev domain.Event, excludeUserID *uuid.UUID)
}
