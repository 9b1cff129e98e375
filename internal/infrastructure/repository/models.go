package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"promptcraft/internal/domain"
)

// GORM models. Domain structs never carry gorm tags; each model maps with
// ToDomain and the repos build models on the way in.

type UserGorm struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null;size:50"`
	Email     string    `gorm:"uniqueIndex;not null;size:100"`
	Password  string    `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserGorm) TableName() string { return "users" }

func (m *UserGorm) ToDomain() *domain.User {
	return &domain.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Password:  m.Password,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type GamificationGorm struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TotalXP          int       `gorm:"column:total_xp;not null;default:0"`
	Level            int       `gorm:"not null;default:1"`
	CurrentStreak    int       `gorm:"not null;default:0"`
	LongestStreak    int       `gorm:"not null;default:0"`
	StreakFreezes    int       `gorm:"not null;default:0"`
	LastActivityDate *time.Time
	LessonsCompleted int `gorm:"not null;default:0"`
	PuzzlesCompleted int `gorm:"not null;default:0"`
	Puzzles3Stars    int `gorm:"column:puzzles_3_stars;not null;default:0"`
	TotalTimeMinutes int `gorm:"not null;default:0"`
	DailyXPGoal      int `gorm:"column:daily_xp_goal;not null;default:50"`
	DailyXPEarned    int `gorm:"column:daily_xp_earned;not null;default:0"`
	DailyGoalStreak  int `gorm:"not null;default:0"`
	UpdatedAt        time.Time
}

func (GamificationGorm) TableName() string { return "gamification_profiles" }

func (m *GamificationGorm) ToDomain() *domain.Gamification {
	return &domain.Gamification{
		UserID:           m.UserID,
		TotalXP:          m.TotalXP,
		Level:            m.Level,
		CurrentStreak:    m.CurrentStreak,
		LongestStreak:    m.LongestStreak,
		StreakFreezes:    m.StreakFreezes,
		LastActivityDate: m.LastActivityDate,
		LessonsCompleted: m.LessonsCompleted,
		PuzzlesCompleted: m.PuzzlesCompleted,
		Puzzles3Stars:    m.Puzzles3Stars,
		TotalTimeMinutes: m.TotalTimeMinutes,
		DailyXPGoal:      m.DailyXPGoal,
		DailyXPEarned:    m.DailyXPEarned,
		DailyGoalStreak:  m.DailyGoalStreak,
		UpdatedAt:        m.UpdatedAt,
	}
}

func gamificationModel(g *domain.Gamification) *GamificationGorm {
	return &GamificationGorm{
		UserID:           g.UserID,
		TotalXP:          g.TotalXP,
		Level:            g.Level,
		CurrentStreak:    g.CurrentStreak,
		LongestStreak:    g.LongestStreak,
		StreakFreezes:    g.StreakFreezes,
		LastActivityDate: g.LastActivityDate,
		LessonsCompleted: g.LessonsCompleted,
		PuzzlesCompleted: g.PuzzlesCompleted,
		Puzzles3Stars:    g.Puzzles3Stars,
		TotalTimeMinutes: g.TotalTimeMinutes,
		DailyXPGoal:      g.DailyXPGoal,
		DailyXPEarned:    g.DailyXPEarned,
		DailyGoalStreak:  g.DailyGoalStreak,
		UpdatedAt:        g.UpdatedAt,
	}
}

type XPTransactionGorm struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_xp_user_created"`
	Amount      int       `gorm:"not null"`
	Source      string    `gorm:"not null;size:32"`
	SourceID    string    `gorm:"size:64"`
	Multiplier  float64   `gorm:"not null;default:1"`
	Description string
	CreatedAt   time.Time `gorm:"index:idx_xp_user_created;index"`
}

func (XPTransactionGorm) TableName() string { return "xp_transactions" }

func (m *XPTransactionGorm) ToDomain() *domain.XPTransaction {
	return &domain.XPTransaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Source:      domain.XPSource(m.Source),
		SourceID:    m.SourceID,
		Multiplier:  m.Multiplier,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

type BadgeGorm struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Slug        string         `gorm:"uniqueIndex;not null;size:64"`
	Name        string         `gorm:"not null;size:100"`
	Description string
	Icon        string         `gorm:"size:100"`
	Category    string         `gorm:"size:50"`
	Rarity      string         `gorm:"size:20"`
	Condition   datatypes.JSON `gorm:"not null"`
	XPReward    int            `gorm:"column:xp_reward;not null;default:0"`
	IsHidden    bool           `gorm:"not null;default:false"`
	Position    int            `gorm:"not null;default:0"`
}

func (BadgeGorm) TableName() string { return "badges" }

func (m *BadgeGorm) ToDomain() (*domain.Badge, error) {
	var cond domain.BadgeCondition
	if err := json.Unmarshal(m.Condition, &cond); err != nil {
		return nil, err
	}
	return &domain.Badge{
		ID:          m.ID,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Icon:        m.Icon,
		Category:    m.Category,
		Rarity:      domain.BadgeRarity(m.Rarity),
		Condition:   cond,
		XPReward:    m.XPReward,
		IsHidden:    m.IsHidden,
	}, nil
}

type UserBadgeGorm struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	BadgeID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	EarnedAt time.Time `gorm:"not null"`
	Notified bool      `gorm:"not null;default:false"`
}

func (UserBadgeGorm) TableName() string { return "user_badges" }

type LessonGorm struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug     string    `gorm:"uniqueIndex;not null;size:64"`
	Title    string    `gorm:"not null;size:200"`
	Summary  string
	XPReward int `gorm:"column:xp_reward;not null;default:0"`
	Position int `gorm:"not null;default:0"`
}

func (LessonGorm) TableName() string { return "lessons" }

func (m *LessonGorm) ToDomain() *domain.Lesson {
	return &domain.Lesson{
		ID:       m.ID,
		Slug:     m.Slug,
		Title:    m.Title,
		Summary:  m.Summary,
		XPReward: m.XPReward,
		Position: m.Position,
	}
}

type LessonProgressGorm struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	LessonID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompletedAt time.Time `gorm:"not null"`
	TimeMinutes int       `gorm:"not null;default:0"`
}

func (LessonProgressGorm) TableName() string { return "lesson_progress" }

type ExerciseGorm struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Slug     string         `gorm:"uniqueIndex;not null;size:64"`
	Prompt   string         `gorm:"not null"`
	Keywords datatypes.JSON `gorm:"not null"`
	XPReward int            `gorm:"column:xp_reward;not null;default:0"`
}

func (ExerciseGorm) TableName() string { return "exercises" }

func (m *ExerciseGorm) ToDomain() (*domain.Exercise, error) {
	var keywords []string
	if err := json.Unmarshal(m.Keywords, &keywords); err != nil {
		return nil, err
	}
	return &domain.Exercise{
		ID:       m.ID,
		Slug:     m.Slug,
		Prompt:   m.Prompt,
		Keywords: keywords,
		XPReward: m.XPReward,
	}, nil
}

type ExerciseAttemptGorm struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ExerciseID uuid.UUID `gorm:"type:uuid;not null;index"`
	Submission string
	Score      float64   `gorm:"not null;default:0"`
	IsCorrect  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
}

func (ExerciseAttemptGorm) TableName() string { return "exercise_attempts" }

type PuzzleGorm struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Slug         string         `gorm:"uniqueIndex;not null;size:64"`
	Title        string         `gorm:"not null;size:200"`
	Difficulty   string         `gorm:"not null;size:20"`
	Categories   datatypes.JSON `gorm:"not null"`
	Solution     datatypes.JSON `gorm:"not null"`
	BaseReward   int            `gorm:"not null;default:0"`
	TimeLimitSec int            `gorm:"not null;default:0"`
}

func (PuzzleGorm) TableName() string { return "puzzles" }

func (m *PuzzleGorm) ToDomain() (*domain.Puzzle, error) {
	var categories []string
	if err := json.Unmarshal(m.Categories, &categories); err != nil {
		return nil, err
	}
	var solution map[string]string
	if err := json.Unmarshal(m.Solution, &solution); err != nil {
		return nil, err
	}
	return &domain.Puzzle{
		ID:           m.ID,
		Slug:         m.Slug,
		Title:        m.Title,
		Difficulty:   domain.PuzzleDifficulty(m.Difficulty),
		Categories:   categories,
		Solution:     solution,
		BaseReward:   m.BaseReward,
		TimeLimitSec: m.TimeLimitSec,
	}, nil
}

type PuzzleAttemptGorm struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_puzzle_attempts_user_puzzle"`
	PuzzleID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_puzzle_attempts_user_puzzle"`
	Submission   datatypes.JSON `gorm:"not null"`
	IsCorrect    bool           `gorm:"not null;default:false"`
	Stars        int            `gorm:"not null;default:0"`
	XPEarned     int            `gorm:"column:xp_earned;not null;default:0"`
	TimeTakenSec int            `gorm:"not null;default:0"`
	HintsUsed    int            `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

func (PuzzleAttemptGorm) TableName() string { return "puzzle_attempts" }

type DailyChallengeGorm struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date     time.Time `gorm:"type:date;not null;index"`
	Title    string    `gorm:"not null;size:200"`
	Target   int       `gorm:"not null"`
	XPReward int       `gorm:"column:xp_reward;not null;default:0"`
}

func (DailyChallengeGorm) TableName() string { return "daily_challenges" }

func (m *DailyChallengeGorm) ToDomain() *domain.DailyChallenge {
	return &domain.DailyChallenge{
		ID:       m.ID,
		Date:     m.Date,
		Title:    m.Title,
		Target:   m.Target,
		XPReward: m.XPReward,
	}
}

type UserDailyChallengeGorm struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChallengeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Progress    int       `gorm:"not null;default:0"`
	CompletedAt *time.Time
}

func (UserDailyChallengeGorm) TableName() string { return "user_daily_challenges" }

type StreakFreezePurchaseGorm struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CostXP    int       `gorm:"column:cost_xp;not null"`
	CreatedAt time.Time
}

func (StreakFreezePurchaseGorm) TableName() string { return "streak_freeze_purchases" }

// AllModels is the AutoMigrate list.
func AllModels() []interface{} {
	return []interface{}{
		&UserGorm{},
		&GamificationGorm{},
		&XPTransactionGorm{},
		&BadgeGorm{},
		&UserBadgeGorm{},
		&LessonGorm{},
		&LessonProgressGorm{},
		&ExerciseGorm{},
		&ExerciseAttemptGorm{},
		&PuzzleGorm{},
		&PuzzleAttemptGorm{},
		&DailyChallengeGorm{},
		&UserDailyChallengeGorm{},
		&StreakFreezePurchaseGorm{},
	}
}
