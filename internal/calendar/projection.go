package calendar

import (
	"sort"

	"github.com/glowdesk/salonbook/internal/bookings"
	"github.com/glowdesk/salonbook/internal/dates"
)

// WeekDaysFor returns the 7 consecutive dates of the week containing day,
// starting on Sunday. The first date is the Sunday on or before day and the
// last is exactly 6 days later, regardless of month boundaries.
func WeekDaysFor(day dates.Date) []dates.Date {
	start := day.AddDays(-int(day.Weekday()))
	week := make([]dates.Date, 7)
	for i := range week {
		week[i] = start.AddDays(i)
	}
	return week
}

// BookingsOnDay filters to bookings requested on the given calendar day.
// Undated bookings never match.
func BookingsOnDay(list []*bookings.Booking, day dates.Date) []*bookings.Booking {
	var out []*bookings.Booking
	for _, b := range list {
		if b.DateRequested != nil && b.DateRequested.Equal(day) {
			out = append(out, b)
		}
	}
	return out
}

// SortByTime orders bookings ascending by requested time, in place. Bookings
// without a time sort after all timed ones; ties keep their input order.
func SortByTime(list []*bookings.Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		return timeRank(list[i]) < timeRank(list[j])
	})
}

// timeRank maps a booking to a sortable minute-of-day. Free-form times that
// do not parse rank after every real time, and missing times after those.
func timeRank(b *bookings.Booking) int {
	if b.TimeRequested == "" {
		return 24*60 + 1
	}
	clock, ok := b.Clock()
	if !ok {
		return 24 * 60
	}
	return clock.MinuteOfDay()
}

// MonthGrid lays the month containing day out as a flat 7-column grid: nil
// placeholders for the weekday offset of the 1st, then one entry per day of
// the month. No trailing padding.
func MonthGrid(day dates.Date) []*dates.Date {
	first := day.FirstOfMonth()
	offset := int(first.Weekday())
	grid := make([]*dates.Date, 0, offset+first.DaysInMonth())
	for i := 0; i < offset; i++ {
		grid = append(grid, nil)
	}
	for i := 0; i < first.DaysInMonth(); i++ {
		d := first.AddDays(i)
		grid = append(grid, &d)
	}
	return grid
}

// CountByDay tallies bookings per calendar day in a single pass, skipping
// undated bookings.
func CountByDay(list []*bookings.Booking) map[dates.Date]int {
	counts := make(map[dates.Date]int)
	for _, b := range list {
		if b.DateRequested != nil {
			counts[*b.DateRequested]++
		}
	}
	return counts
}
