// Package engine implements the preventive maintenance recurrence and
// reconciliation logic: due-date derivation, stale-instance correction,
// deduplication and plant compliance metrics. Everything here is a pure
// function over caller-supplied data; persistence and instance generation
// are external collaborators.
package engine

import "time"

// TruncateToDay drops the time-of-day portion of t, keeping the calendar date
// in t's location. All due-date arithmetic works on truncated dates.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextDueDate computes when a plan is next due. With no known completion the
// originally scheduled date stands; otherwise the next due date is the last
// completion plus the plan frequency in calendar days.
func NextDueDate(lastCompleted *time.Time, frequencyDays int, fallbackScheduled time.Time) time.Time {
	if lastCompleted == nil {
		return fallbackScheduled
	}
	return TruncateToDay(*lastCompleted).AddDate(0, 0, frequencyDays)
}

// daysBetween returns the whole calendar days from a to b (positive when b is
// after a).
func daysBetween(a, b time.Time) int {
	return int(TruncateToDay(b).Sub(TruncateToDay(a)).Hours() / 24)
}
