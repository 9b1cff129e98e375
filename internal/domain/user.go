package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Username  string
	Password  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the display-side join of a user and their gamification state.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Level    int       `json:"level"`
	TotalXP  int       `json:"totalXp"`
	JoinedAt time.Time `json:"joinedAt"`
}
