package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
)

// fakeStore is an in-memory Store with snapshot-based transaction rollback,
// shared by the coordinator and collaborator tests.
type fakeStore struct {
	mu sync.Mutex

	users       map[uuid.UUID]*domain.User
	gam         map[uuid.UUID]*domain.Gamification
	ledger      []domain.XPTransaction
	catalog     []domain.Badge
	userBadges  map[string]*domain.UserBadge
	lessons     map[string]*domain.Lesson
	completions map[string]*domain.LessonProgress
	exercises   map[string]*domain.Exercise
	exAttempts  []domain.ExerciseAttempt
	puzzles     map[string]*domain.Puzzle
	pzAttempts  []domain.PuzzleAttempt
	challenges  map[uuid.UUID]*domain.DailyChallenge
	userChal    map[string]*domain.UserDailyChallenge
	purchases   []domain.StreakFreezePurchase

	// failLocks makes the next N GetForUpdate calls fail with failErr.
	failLocks int
	failErr   error
	// onLock runs once when the next GetForUpdate acquires the row, standing
	// in for a competing request that committed while this one waited.
	onLock func()
	// failBadgeInserts makes the next N badge inserts report a lost race.
	failBadgeInserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[uuid.UUID]*domain.User{},
		gam:         map[uuid.UUID]*domain.Gamification{},
		userBadges:  map[string]*domain.UserBadge{},
		lessons:     map[string]*domain.Lesson{},
		completions: map[string]*domain.LessonProgress{},
		exercises:   map[string]*domain.Exercise{},
		puzzles:     map[string]*domain.Puzzle{},
		challenges:  map[uuid.UUID]*domain.DailyChallenge{},
		userChal:    map[string]*domain.UserDailyChallenge{},
	}
}

type storeSnapshot struct {
	gam         map[uuid.UUID]*domain.Gamification
	ledger      []domain.XPTransaction
	userBadges  map[string]*domain.UserBadge
	completions map[string]*domain.LessonProgress
	exAttempts  []domain.ExerciseAttempt
	pzAttempts  []domain.PuzzleAttempt
	userChal    map[string]*domain.UserDailyChallenge
	purchases   []domain.StreakFreezePurchase
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		gam:         map[uuid.UUID]*domain.Gamification{},
		userBadges:  map[string]*domain.UserBadge{},
		completions: map[string]*domain.LessonProgress{},
		userChal:    map[string]*domain.UserDailyChallenge{},
		ledger:      append([]domain.XPTransaction(nil), s.ledger...),
		exAttempts:  append([]domain.ExerciseAttempt(nil), s.exAttempts...),
		pzAttempts:  append([]domain.PuzzleAttempt(nil), s.pzAttempts...),
		purchases:   append([]domain.StreakFreezePurchase(nil), s.purchases...),
	}
	for k, v := range s.gam {
		c := *v
		if v.LastActivityDate != nil {
			d := *v.LastActivityDate
			c.LastActivityDate = &d
		}
		snap.gam[k] = &c
	}
	for k, v := range s.userBadges {
		c := *v
		snap.userBadges[k] = &c
	}
	for k, v := range s.completions {
		c := *v
		snap.completions[k] = &c
	}
	for k, v := range s.userChal {
		c := *v
		snap.userChal[k] = &c
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.gam = snap.gam
	s.ledger = snap.ledger
	s.userBadges = snap.userBadges
	s.completions = snap.completions
	s.exAttempts = snap.exAttempts
	s.pzAttempts = snap.pzAttempts
	s.userChal = snap.userChal
	s.purchases = snap.purchases
}

func (s *fakeStore) InTx(ctx context.Context, fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *fakeStore) Users() UserRepo                { return fakeUsers{s} }
func (s *fakeStore) Gamification() GamificationRepo { return fakeGam{s} }
func (s *fakeStore) Ledger() LedgerRepo             { return fakeLedger{s} }
func (s *fakeStore) Badges() BadgeRepo              { return fakeBadges{s} }
func (s *fakeStore) Lessons() LessonRepo            { return fakeLessons{s} }
func (s *fakeStore) Exercises() ExerciseRepo        { return fakeExercises{s} }
func (s *fakeStore) Puzzles() PuzzleRepo            { return fakePuzzles{s} }
func (s *fakeStore) Challenges() ChallengeRepo      { return fakeChallenges{s} }
func (s *fakeStore) Purchases() PurchaseRepo        { return fakePurchases{s} }

type fakeUsers struct{ s *fakeStore }

func (f fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.s.users[u.ID] = u
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeGam struct{ s *fakeStore }

func (f fakeGam) Create(_ context.Context, g *domain.Gamification) error {
	f.s.gam[g.UserID] = g
	return nil
}

func (f fakeGam) Get(_ context.Context, userID uuid.UUID) (*domain.Gamification, error) {
	g, ok := f.s.gam[userID]
	if !ok {
		return nil, domain.ErrUnknownUser
	}
	c := *g
	return &c, nil
}

func (f fakeGam) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Gamification, error) {
	if f.s.failLocks > 0 {
		f.s.failLocks--
		return nil, f.s.failErr
	}
	if f.s.onLock != nil {
		hook := f.s.onLock
		f.s.onLock = nil
		hook()
	}
	return f.Get(ctx, userID)
}

func (f fakeGam) Save(_ context.Context, g *domain.Gamification) error {
	c := *g
	f.s.gam[g.UserID] = &c
	return nil
}

func (f fakeGam) ListUserIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.s.gam))
	for id := range f.s.gam {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeLedger struct{ s *fakeStore }

func (f fakeLedger) Append(_ context.Context, tx *domain.XPTransaction) error {
	tx.CreatedAt = time.Now()
	f.s.ledger = append(f.s.ledger, *tx)
	return nil
}

func (f fakeLedger) History(_ context.Context, userID uuid.UUID, page, perPage int) ([]domain.XPTransaction, int64, error) {
	var rows []domain.XPTransaction
	for _, t := range f.s.ledger {
		if t.UserID == userID {
			rows = append(rows, t)
		}
	}
	return rows, int64(len(rows)), nil
}

func (f fakeLedger) SumByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	for _, t := range f.s.ledger {
		if t.UserID == userID {
			sum += int64(t.Amount)
		}
	}
	return sum, nil
}

func (f fakeLedger) SumsInRange(_ context.Context, from, to time.Time) (map[uuid.UUID]int64, error) {
	sums := map[uuid.UUID]int64{}
	for _, t := range f.s.ledger {
		if !from.IsZero() && t.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !t.CreatedAt.Before(to) {
			continue
		}
		sums[t.UserID] += int64(t.Amount)
	}
	return sums, nil
}

type fakeBadges struct{ s *fakeStore }

func badgeKey(userID, badgeID uuid.UUID) string { return userID.String() + ":" + badgeID.String() }

func (f fakeBadges) Catalog(_ context.Context) ([]domain.Badge, error) {
	return f.s.catalog, nil
}

func (f fakeBadges) HeldIDs(_ context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	held := map[uuid.UUID]bool{}
	for _, ub := range f.s.userBadges {
		if ub.UserID == userID {
			held[ub.BadgeID] = true
		}
	}
	return held, nil
}

func (f fakeBadges) Insert(_ context.Context, ub *domain.UserBadge) error {
	if f.s.failBadgeInserts > 0 {
		f.s.failBadgeInserts--
		return domain.ErrBadgeAlreadyHeld
	}
	key := badgeKey(ub.UserID, ub.BadgeID)
	if _, ok := f.s.userBadges[key]; ok {
		return domain.ErrBadgeAlreadyHeld
	}
	c := *ub
	f.s.userBadges[key] = &c
	return nil
}

func (f fakeBadges) ListEarned(_ context.Context, userID uuid.UUID) ([]EarnedBadge, error) {
	var out []EarnedBadge
	for _, ub := range f.s.userBadges {
		if ub.UserID != userID {
			continue
		}
		for _, b := range f.s.catalog {
			if b.ID == ub.BadgeID {
				out = append(out, EarnedBadge{Badge: b, EarnedAt: ub.EarnedAt})
			}
		}
	}
	return out, nil
}

func (f fakeBadges) MarkNotified(_ context.Context, userID, badgeID uuid.UUID) error {
	if ub, ok := f.s.userBadges[badgeKey(userID, badgeID)]; ok {
		ub.Notified = true
	}
	return nil
}

type fakeLessons struct{ s *fakeStore }

func (f fakeLessons) List(_ context.Context) ([]domain.Lesson, error) {
	var out []domain.Lesson
	for _, l := range f.s.lessons {
		out = append(out, *l)
	}
	return out, nil
}

func (f fakeLessons) GetBySlug(_ context.Context, slug string) (*domain.Lesson, error) {
	l, ok := f.s.lessons[slug]
	if !ok {
		return nil, domain.ErrLessonNotFound
	}
	return l, nil
}

func (f fakeLessons) RecordCompletion(_ context.Context, p *domain.LessonProgress) error {
	key := p.UserID.String() + ":" + p.LessonID.String()
	if _, ok := f.s.completions[key]; ok {
		return domain.ErrLessonCompleted
	}
	c := *p
	c.CompletedAt = time.Now()
	f.s.completions[key] = &c
	return nil
}

type fakeExercises struct{ s *fakeStore }

func (f fakeExercises) GetBySlug(_ context.Context, slug string) (*domain.Exercise, error) {
	e, ok := f.s.exercises[slug]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	return e, nil
}

func (f fakeExercises) HasCorrect(_ context.Context, userID, exerciseID uuid.UUID) (bool, error) {
	for _, a := range f.s.exAttempts {
		if a.UserID == userID && a.ExerciseID == exerciseID && a.IsCorrect {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeExercises) RecordAttempt(_ context.Context, a *domain.ExerciseAttempt) error {
	f.s.exAttempts = append(f.s.exAttempts, *a)
	return nil
}

type fakePuzzles struct{ s *fakeStore }

func (f fakePuzzles) List(_ context.Context) ([]domain.Puzzle, error) {
	var out []domain.Puzzle
	for _, p := range f.s.puzzles {
		out = append(out, *p)
	}
	return out, nil
}

func (f fakePuzzles) GetBySlug(_ context.Context, slug string) (*domain.Puzzle, error) {
	p, ok := f.s.puzzles[slug]
	if !ok {
		return nil, domain.ErrPuzzleNotFound
	}
	return p, nil
}

func (f fakePuzzles) HasSolved(_ context.Context, userID, puzzleID uuid.UUID) (bool, error) {
	for _, a := range f.s.pzAttempts {
		if a.UserID == userID && a.PuzzleID == puzzleID && a.IsCorrect {
			return true, nil
		}
	}
	return false, nil
}

func (f fakePuzzles) RecordAttempt(_ context.Context, a *domain.PuzzleAttempt) error {
	f.s.pzAttempts = append(f.s.pzAttempts, *a)
	return nil
}

type fakeChallenges struct{ s *fakeStore }

func (f fakeChallenges) ListForDate(_ context.Context, date time.Time) ([]domain.DailyChallenge, error) {
	var out []domain.DailyChallenge
	for _, ch := range f.s.challenges {
		if ch.Date.Equal(date) {
			out = append(out, *ch)
		}
	}
	return out, nil
}

func (f fakeChallenges) Get(_ context.Context, id uuid.UUID) (*domain.DailyChallenge, error) {
	ch, ok := f.s.challenges[id]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	return ch, nil
}

func (f fakeChallenges) GetUserChallenge(_ context.Context, userID, challengeID uuid.UUID) (*domain.UserDailyChallenge, error) {
	uc, ok := f.s.userChal[userID.String()+":"+challengeID.String()]
	if !ok {
		return nil, nil
	}
	c := *uc
	return &c, nil
}

func (f fakeChallenges) SaveUserChallenge(_ context.Context, uc *domain.UserDailyChallenge) error {
	c := *uc
	f.s.userChal[uc.UserID.String()+":"+uc.ChallengeID.String()] = &c
	return nil
}

type fakePurchases struct{ s *fakeStore }

func (f fakePurchases) Record(_ context.Context, p *domain.StreakFreezePurchase) error {
	c := *p
	c.CreatedAt = time.Now()
	f.s.purchases = append(f.s.purchases, c)
	return nil
}

func (f fakePurchases) SumCostByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	for _, p := range f.s.purchases {
		if p.UserID == userID {
			sum += int64(p.CostXP)
		}
	}
	return sum, nil
}

// fakeLeaderboard records increments instead of talking to redis.
type fakeLeaderboard struct {
	mu      sync.Mutex
	records []int
	scores  map[uuid.UUID]int64
	fail    bool
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: map[uuid.UUID]int64{}}
}

func (f *fakeLeaderboard) Record(_ context.Context, userID uuid.UUID, amount int, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return context.DeadlineExceeded
	}
	f.records = append(f.records, amount)
	f.scores[userID] += int64(amount)
	return nil
}

func (f *fakeLeaderboard) Top(_ context.Context, _ Window, _ time.Time, _ int64) ([]LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeLeaderboard) Rank(_ context.Context, _ Window, _ time.Time, _ uuid.UUID) (int64, error) {
	return 1, nil
}

func (f *fakeLeaderboard) Score(_ context.Context, _ Window, _ time.Time, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scores[userID], nil
}

func (f *fakeLeaderboard) Size(_ context.Context, _ Window, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.scores)), nil
}

func (f *fakeLeaderboard) Rebuild(_ context.Context, _ Window, _ time.Time, sums map[uuid.UUID]int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores = sums
	return nil
}

// fakeNotifier captures emitted events per user.
type fakeNotifier struct {
	mu     sync.Mutex
	events map[uuid.UUID][]domain.Event
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: map[uuid.UUID][]domain.Event{}}
}

func (f *fakeNotifier) SendToUser(userID uuid.UUID, ev domain.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[userID] = append(f.events[userID], ev)
	return 1
}

func (f *fakeNotifier) Broadcast(ev domain.Event, _ *uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id := range f.events {
		f.events[id] = append(f.events[id], ev)
	}
}

func (f *fakeNotifier) types(userID uuid.UUID) []domain.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.EventType, 0, len(f.events[userID]))
	for _, ev := range f.events[userID] {
		out = append(out, ev.Type)
	}
	return out
}
