// Package timex contains time and calendar-date helpers
package timex

import (
	"fmt"
	"time"
)

// ISODate is the wire layout for calendar dates
const ISODate = "2006-01-02"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Date is a calendar day with no time zone attached
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// MakeDate builds a Date and reports whether the components form a real
// calendar day (rejects 31/02 style impossibilities via normalization roundtrip)
func MakeDate(year int, month, day int) (Date, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	y2, m2, d2 := t.Date()
	if y2 != year || int(m2) != month || d2 != day {
		return Date{}, false
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, true
}

// ParseDate parses an ISO YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String renders the ISO form
func (d Date) String() string { return d.Time().Format(ISODate) }

// MarshalJSON renders the ISO form as a JSON string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts an ISO YYYY-MM-DD JSON string
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of the day
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (negative n goes back)
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// Before reports whether d is earlier than o
func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

// After reports whether d is later than o
func (d Date) After(o Date) bool { return d.Time().After(o.Time()) }

// DaysBetween returns o - d in whole days
func DaysBetween(d, o Date) int {
	return int(o.Time().Sub(d.Time()) / (24 * time.Hour))
}

// WeekWindow returns the Monday..Sunday window containing d (ISO week)
func WeekWindow(d Date) (start, end Date) {
	wd := int(d.Time().Weekday()) // Sunday == 0
	if wd == 0 {
		wd = 7
	}
	start = d.AddDays(1 - wd)
	end = start.AddDays(6)
	return start, end
}

// MonthWindow returns the first..last day window of d's calendar month
func MonthWindow(d Date) (start, end Date) {
	start = Date{Year: d.Year, Month: d.Month, Day: 1}
	end = DateOf(start.Time().AddDate(0, 1, -1))
	return start, end
}
