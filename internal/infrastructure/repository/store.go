package repository

import (
	"context"

	"gorm.io/gorm"

	"promptcraft/internal/application/usecase"
)

// Store implements the usecase persistence port on postgres through gorm.
// The *gorm.DB must be opened with TranslateError so unique-constraint
// violations surface as gorm.ErrDuplicatedKey.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn against a Store bound to one database transaction. A returned
// error rolls everything back.
func (s *Store) InTx(ctx context.Context, fn func(usecase.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Users() usecase.UserRepo { return &UserRepository{db: s.db} }

func (s *Store) Gamification() usecase.GamificationRepo { return &GamificationRepository{db: s.db} }

func (s *Store) Ledger() usecase.LedgerRepo { return &LedgerRepository{db: s.db} }

func (s *Store) Badges() usecase.BadgeRepo { return &BadgeRepository{db: s.db} }

func (s *Store) Lessons() usecase.LessonRepo { return &LessonRepository{db: s.db} }

func (s *Store) Exercises() usecase.ExerciseRepo { return &ExerciseRepository{db: s.db} }

func (s *Store) Puzzles() usecase.PuzzleRepo { return &PuzzleRepository{db: s.db} }

func (s *Store) Challenges() usecase.ChallengeRepo { return &ChallengeRepository{db: s.db} }

func (s *Store) Purchases() usecase.PurchaseRepo { return &PurchaseRepository{db: s.db} }
