package calendar

import (
	"github.com/glowdesk/salonbook/internal/bookings"
	"github.com/glowdesk/salonbook/internal/dates"
)

// Card is the rendered summary of one booking plus the actions legal from
// its current status. Cards hold no state of their own.
type Card struct {
	ID            string            `json:"id"`
	ClientName    string            `json:"client_name"`
	TimeLabel     string            `json:"time_label,omitempty"`
	ServiceTitle  string            `json:"service_title,omitempty"`
	ServicePrice  *float64          `json:"service_price,omitempty"`
	Note          string            `json:"note,omitempty"`
	Status        bookings.Status   `json:"status"`
	Badge         string            `json:"badge"`
	DeclineReason string            `json:"decline_reason,omitempty"`
	Actions       []bookings.Status `json:"actions"`
}

// NewCard projects a booking into its card form. The time label falls back
// to the raw stored string when it cannot be parsed.
func NewCard(b *bookings.Booking) Card {
	return Card{
		ID:            b.ID,
		ClientName:    b.ClientName,
		TimeLabel:     dates.FormatClock(b.TimeRequested),
		ServiceTitle:  b.ServiceTitle,
		ServicePrice:  b.ServicePrice,
		Note:          b.Note,
		Status:        b.Status,
		Badge:         bookings.BadgeClass(string(b.Status)),
		DeclineReason: b.DeclineReason,
		Actions:       bookings.NextStatuses(b.Status),
	}
}

const emptyDayMessage = "No bookings for this day"

// DayView renders a single date's bookings sorted by time.
type DayView struct {
	Date         dates.Date `json:"date"`
	Today        bool       `json:"today"`
	Cards        []Card     `json:"cards"`
	EmptyMessage string     `json:"empty_message,omitempty"`
}

// BuildDayView buckets and sorts the bookings for one day. The empty message
// is set only when the day has no bookings.
func BuildDayView(list []*bookings.Booking, day, today dates.Date) DayView {
	onDay := BookingsOnDay(list, day)
	SortByTime(onDay)

	view := DayView{
		Date:  day,
		Today: day.Equal(today),
		Cards: make([]Card, 0, len(onDay)),
	}
	for _, b := range onDay {
		view.Cards = append(view.Cards, NewCard(b))
	}
	if len(view.Cards) == 0 {
		view.EmptyMessage = emptyDayMessage
	}
	return view
}

// DayColumn is one day inside a week view. Empty columns carry a lightweight
// placeholder instead of the full day empty state.
type DayColumn struct {
	Date        dates.Date `json:"date"`
	Today       bool       `json:"today"`
	Cards       []Card     `json:"cards"`
	Placeholder string     `json:"placeholder,omitempty"`
}

// WeekView renders seven day columns from Sunday through Saturday.
type WeekView struct {
	Start dates.Date  `json:"start"`
	End   dates.Date  `json:"end"`
	Days  []DayColumn `json:"days"`
}

// BuildWeekView buckets and sorts each day of the week containing day
// independently.
func BuildWeekView(list []*bookings.Booking, day, today dates.Date) WeekView {
	week := WeekDaysFor(day)
	view := WeekView{
		Start: week[0],
		End:   week[6],
		Days:  make([]DayColumn, 0, len(week)),
	}
	for _, d := range week {
		onDay := BookingsOnDay(list, d)
		SortByTime(onDay)

		col := DayColumn{
			Date:  d,
			Today: d.Equal(today),
			Cards: make([]Card, 0, len(onDay)),
		}
		for _, b := range onDay {
			col.Cards = append(col.Cards, NewCard(b))
		}
		if len(col.Cards) == 0 {
			col.Placeholder = "No bookings"
		}
		view.Days = append(view.Days, col)
	}
	return view
}

// MonthCell is one day cell of the month grid. Nil cells in MonthView.Cells
// are the leading weekday placeholders.
type MonthCell struct {
	Date         dates.Date `json:"date"`
	Today        bool       `json:"today"`
	BookingCount int        `json:"booking_count"`
	HasBookings  bool       `json:"has_bookings"`
}

// MonthView renders a 7-column grid with per-day booking counts. Clicking a
// cell is a shell concern; the view only marks which cells carry bookings.
type MonthView struct {
	Year  int          `json:"year"`
	Month string       `json:"month"`
	Cells []*MonthCell `json:"cells"`
}

// BuildMonthView computes per-day counts over the whole booking set and lays
// them out on the month grid for the month containing day.
func BuildMonthView(list []*bookings.Booking, day, today dates.Date) MonthView {
	counts := CountByDay(list)
	grid := MonthGrid(day)

	view := MonthView{
		Year:  day.Year,
		Month: day.Month.String(),
		Cells: make([]*MonthCell, 0, len(grid)),
	}
	for _, d := range grid {
		if d == nil {
			view.Cells = append(view.Cells, nil)
			continue
		}
		n := counts[*d]
		view.Cells = append(view.Cells, &MonthCell{
			Date:         *d,
			Today:        d.Equal(today),
			BookingCount: n,
			HasBookings:  n > 0,
		})
	}
	return view
}
