// Package budget implements the hours-limit primitives: daily usage, remaining
// budget, category usage over week/month windows, and the overtime predicate.
// Everything here is pure; enforcement policy lives with the caller
package budget

import "voicelog/internal/platform/timex"

// MinEntryHours is the smallest slice of work worth recording.
// Enforce-mode capping never reduces an entry below this floor
const MinEntryHours = 0.5

// Mode selects how a caller reacts when a new entry would exceed the daily limit
type Mode string

const (
	// ModeEnforce caps the candidate's hours at the remaining budget
	ModeEnforce Mode = "enforce"
	// ModeAdvisory accepts the full hours and surfaces an overtime warning
	ModeAdvisory Mode = "advisory"
)

// Entry is the minimal view of a stored time entry the engine needs
type Entry struct {
	Date    timex.Date
	Project string
	Hours   float64
}

// WindowKind names a category-budget accounting window
type WindowKind string

const (
	WindowWeekly  WindowKind = "weekly"
	WindowMonthly WindowKind = "monthly"
)

// DailyUsage sums hours logged on day
func DailyUsage(entries []Entry, day timex.Date) float64 {
	var total float64
	for _, e := range entries {
		if e.Date == day {
			total += e.Hours
		}
	}
	return total
}

// RemainingForDay is the budget left on day under dailyLimit, never negative
func RemainingForDay(entries []Entry, day timex.Date, dailyLimit float64) float64 {
	rem := dailyLimit - DailyUsage(entries, day)
	if rem < 0 {
		return 0
	}
	return rem
}

// CategoryUsage sums hours in [windowStart, windowEnd] for entries whose project
// maps to category. categoryOf returns "" for uncategorized projects
func CategoryUsage(entries []Entry, categoryOf func(project string) string, category string, windowStart, windowEnd timex.Date) float64 {
	var total float64
	for _, e := range entries {
		if e.Date.Before(windowStart) || e.Date.After(windowEnd) {
			continue
		}
		if categoryOf(e.Project) == category {
			total += e.Hours
		}
	}
	return total
}

// IsOvertime reports whether usage strictly exceeds limit
func IsOvertime(usage, limit float64) bool { return usage > limit }

// Window returns the inclusive bounds of the accounting window containing day.
// Weeks are ISO-style Monday through Sunday; months are calendar months
func Window(kind WindowKind, day timex.Date) (start, end timex.Date) {
	switch kind {
	case WindowMonthly:
		return timex.MonthWindow(day)
	default:
		return timex.WeekWindow(day)
	}
}
