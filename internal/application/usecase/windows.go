package usecase

import "time"

// WindowRange returns the [from, to) interval the window covers at instant
// at, in loc. All-time returns zero times, meaning unbounded. Leaderboard
// windows follow plain local calendar days; the streak reset hour does not
// apply here.
func WindowRange(w Window, at time.Time, loc *time.Location) (from, to time.Time) {
	local := at.In(loc)
	switch w {
	case WindowDaily:
		from = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		to = from.AddDate(0, 0, 1)
	case WindowWeekly:
		from = mondayOf(local, loc)
		to = from.AddDate(0, 0, 7)
	case WindowMonthly:
		from = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		to = from.AddDate(0, 1, 0)
	}
	return from, to
}

func mondayOf(local time.Time, loc *time.Location) time.Time {
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
