package settlement

import "time"

// DateOnly truncates t to UTC midnight. Service windows are compared as
// calendar dates so that timezone offsets cannot shift day counts.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole days in the half-open interval [start, end).
// Both arguments must already be UTC midnights.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// OverlapDays counts the whole days the half-open interval [start, end)
// shares with [windowStart, windowEnd). Zero when they do not intersect.
func OverlapDays(start, end, windowStart, windowEnd time.Time) int {
	s := start
	if windowStart.After(s) {
		s = windowStart
	}
	e := end
	if windowEnd.Before(e) {
		e = windowEnd
	}
	if !e.After(s) {
		return 0
	}
	return DaysBetween(s, e)
}

// MaxTime returns the later of a and b.
func MaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
