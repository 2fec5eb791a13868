package timeutil

import "time"

// DayKey returns the UTC calendar date of t formatted as YYYY-MM-DD.
// Quota counters and rate-limit headers are keyed by this value so the
// daily window rolls over at UTC midnight regardless of server timezone.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SameUTCDay reports whether a and b fall on the same UTC calendar date.
func SameUTCDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TruncateToDay normalizes the timestamp to midnight in the provided zone.
func TruncateToDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// NextUTCMidnight returns the instant the current quota window resets.
func NextUTCMidnight(t time.Time) time.Time {
	return TruncateToDay(t.UTC(), time.UTC).Add(24 * time.Hour)
}
