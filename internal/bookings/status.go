package bookings

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a booking. The canonical names are
// pending, accepted, completed, and declined; "confirmed" and "cancelled"
// are accepted on input as legacy aliases but never stored or emitted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

// transitions is the exhaustive table of legal forward moves. Completed and
// declined are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusDeclined},
	StatusAccepted:  {StatusCompleted},
	StatusCompleted: {},
	StatusDeclined:  {},
}

// ParseStatus canonicalizes a raw status string. Matching is
// case-insensitive and maps the legacy aliases confirmed -> accepted and
// cancelled/canceled -> declined.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending, nil
	case "accepted", "confirmed":
		return StatusAccepted, nil
	case "completed":
		return StatusCompleted, nil
	case "declined", "cancelled", "canceled":
		return StatusDeclined, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal moves out of s, in the order action buttons
// are rendered (accept before decline). Terminal states return an empty
// slice, never nil, so callers can range or marshal without a nil check.
func NextStatuses(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Terminal reports whether no further transitions exist from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// BadgeClass maps any status string, canonical or alias, to a display badge
// class. Unknown input falls back to "neutral"; this function never fails.
func BadgeClass(raw string) string {
	status, err := ParseStatus(raw)
	if err != nil {
		return "neutral"
	}
	switch status {
	case StatusPending:
		return "warning"
	case StatusAccepted:
		return "success"
	case StatusCompleted:
		return "info"
	case StatusDeclined:
		return "danger"
	default:
		return "neutral"
	}
}
