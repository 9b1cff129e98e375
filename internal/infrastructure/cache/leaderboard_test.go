package cache

import (
	"testing"
	"time"

	"promptcraft/internal/application/usecase"
)

func TestWindowKey(t *testing.T) {
	// Wednesday.
	at := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		w    usecase.Window
		want string
	}{
		{usecase.WindowDaily, "leaderboard:daily:2025-03-12"},
		{usecase.WindowWeekly, "leaderboard:weekly:2025-03-10"},
		{usecase.WindowMonthly, "leaderboard:monthly:2025-03"},
		{usecase.WindowAllTime, "leaderboard:all_time"},
	}
	for _, tc := range cases {
		if got := WindowKey(tc.w, at, time.UTC); got != tc.want {
			t.Errorf("WindowKey(%s) = %q, want %q", tc.w, got, tc.want)
		}
	}
}

func TestWindowKeyWeeklySundayKeepsMondayAnchor(t *testing.T) {
	sunday := time.Date(2025, time.March, 16, 23, 0, 0, 0, time.UTC)
	if got := WindowKey(usecase.WindowWeekly, sunday, time.UTC); got != "leaderboard:weekly:2025-03-10" {
		t.Errorf("WindowKey = %q, want leaderboard:weekly:2025-03-10", got)
	}
}

func TestExpiryAt(t *testing.T) {
	// Wednesday.
	at := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		w    usecase.Window
		want time.Time
	}{
		{usecase.WindowDaily, time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC)},
		{usecase.WindowWeekly, time.Date(2025, time.March, 24, 0, 0, 0, 0, time.UTC)},
		{usecase.WindowMonthly, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := expiryAt(tc.w, at, time.UTC); !got.Equal(tc.want) {
			t.Errorf("expiryAt(%s) = %v, want %v", tc.w, got, tc.want)
		}
	}
}

func TestWindowKeyRespectsLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2025, time.March, 12, 22, 0, 0, 0, time.UTC) // already the 13th in JST
	if got := WindowKey(usecase.WindowDaily, late, tokyo); got != "leaderboard:daily:2025-03-13" {
		t.Errorf("WindowKey = %q, want leaderboard:daily:2025-03-13", got)
	}
}
