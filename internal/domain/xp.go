package domain

import (
	"time"

	"github.com/google/uuid"
)

// XPTransaction is one row of the append-only XP ledger. Rows are never
// modified; the ledger is the source of truth for leaderboard rebuilds and
// aggregate reconciliation.
type XPTransaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Amount      int       `json:"amount"`
	Source      XPSource  `json:"source"`
	SourceID    string    `json:"sourceId"`
	Multiplier  float64   `json:"multiplier"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
