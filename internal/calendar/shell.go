package calendar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glowdesk/salonbook/internal/dates"
)

// ViewType selects the calendar granularity being rendered.
type ViewType string

const (
	ViewDay   ViewType = "day"
	ViewWeek  ViewType = "week"
	ViewMonth ViewType = "month"
)

var (
	ErrUnknownView      = errors.New("calendar: unknown view type")
	ErrInvalidDirection = errors.New("calendar: navigation direction must be -1 or +1")
)

// ParseViewType normalizes a raw view name.
func ParseViewType(raw string) (ViewType, error) {
	switch ViewType(strings.ToLower(strings.TrimSpace(raw))) {
	case ViewDay:
		return ViewDay, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, raw)
	}
}

// State is the calendar shell's navigation state: which view is active and
// which date anchors it.
type State struct {
	View   ViewType   `json:"view"`
	Anchor dates.Date `json:"anchor"`
}

// NewState starts on the given view anchored at today.
func NewState(view ViewType, anchor dates.Date) State {
	return State{View: view, Anchor: anchor}
}

// Navigate advances the anchor by one unit of the active view. Day moves one
// day, week seven days, month one calendar month with the day-of-month
// clamped when the target month is shorter.
func (s *State) Navigate(direction int) error {
	if direction != -1 && direction != 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDirection, direction)
	}
	switch s.View {
	case ViewDay:
		s.Anchor = s.Anchor.AddDays(direction)
	case ViewWeek:
		s.Anchor = s.Anchor.AddDays(7 * direction)
	case ViewMonth:
		s.Anchor = s.Anchor.AddMonths(direction)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownView, s.View)
	}
	return nil
}

// SetView switches the rendered view without moving the anchor.
func (s *State) SetView(v ViewType) error {
	parsed, err := ParseViewType(string(v))
	if err != nil {
		return err
	}
	s.View = parsed
	return nil
}

// OpenDay is the month-cell click transition: jump to the clicked date and
// force the day view.
func (s *State) OpenDay(d dates.Date) {
	s.Anchor = d
	s.View = ViewDay
}

// Window returns the inclusive date range the active view needs loaded.
func (s State) Window() (from, to dates.Date) {
	switch s.View {
	case ViewWeek:
		week := WeekDaysFor(s.Anchor)
		return week[0], week[6]
	case ViewMonth:
		first := s.Anchor.FirstOfMonth()
		return first, first.AddDays(first.DaysInMonth() - 1)
	default:
		return s.Anchor, s.Anchor
	}
}
