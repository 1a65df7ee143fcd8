// Package dates provides calendar-date and time-of-day value types for the
// booking calendar. Bookings carry a civil date with no zone and an optional
// wall-clock time, so both types stay deliberately free of time.Time
// semantics except at explicit conversion points.
package dates

import (
	"encoding/json"
	"fmt"
	"time"
)

const isoDate = "2006-01-02"

// Date is a civil calendar date. The zero value is not a valid date; use
// IsZero to detect it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a date, normalizing out-of-range components the way
// time.Date does (e.g. Jan 32 becomes Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return Date{}, fmt.Errorf("dates: parse %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf extracts the civil date from t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date in loc. A nil loc means UTC.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as ISO "YYYY-MM-DD".
func (d Date) String() string {
	return d.Time(time.UTC).Format(isoDate)
}

// Time returns midnight of d in loc. A nil loc means UTC.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// AddDays returns the date n days after d (before, for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// AddMonths steps by whole calendar months, clamping the day-of-month when
// the target month is shorter. time.AddDate normalizes overflow instead
// (Jan 31 + 1 month = Mar 3), which is the wrong behavior for calendar
// navigation.
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := d.Day
	if max := daysIn(first.Year(), first.Month()); day > max {
		day = max
	}
	return Date{Year: first.Year(), Month: first.Month(), Day: day}
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return daysIn(d.Year, d.Month)
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// Equal reports calendar-day equality.
func (d Date) Equal(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
