package domain

import "time"

// EventType enumerates engine-emitted realtime events.
type EventType string

const (
	EventXPEarned          EventType = "xp_earned"
	EventLevelUp           EventType = "level_up"
	EventBadgeEarned       EventType = "badge_earned"
	EventStreakUpdate      EventType = "streak_update"
	EventDailyGoalComplete EventType = "daily_goal_complete"
	EventLeaderboardUpdate EventType = "leaderboard_update"
	EventServerShutdown    EventType = "server_shutdown"
)

// Event is the envelope pushed to a user's live channels.
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent stamps an envelope with the current UTC time.
func NewEvent(t EventType, data interface{}) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now().UTC()}
}
