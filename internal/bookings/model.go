package bookings

import (
	"strings"
	"time"

	"github.com/glowdesk/salonbook/internal/dates"
)

// Booking is a single appointment request. Date and time are optional:
// customers sometimes ask for "whenever works", and views exclude undated
// bookings rather than erroring on them.
//
// TimeRequested is kept as the raw text the customer entered. New bookings
// validate it to HH:MM, but legacy rows may hold free-form strings
// ("after lunch"); those render verbatim and sort with the untimed bookings.
type Booking struct {
	ID            string      `json:"id"`
	ArtistID      string      `json:"artist_id"`
	ClientName    string      `json:"client_name"`
	DateRequested *dates.Date `json:"date_requested,omitempty"`
	TimeRequested string      `json:"time_requested,omitempty"`
	ServiceTitle  string      `json:"service_title,omitempty"`
	ServicePrice  *float64    `json:"service_price,omitempty"`
	Note          string      `json:"note,omitempty"`
	Status        Status      `json:"status"`
	DeclineReason string      `json:"decline_reason,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Clock returns the parsed time of day, if TimeRequested holds one.
func (b *Booking) Clock() (dates.TimeOfDay, bool) {
	if b.TimeRequested == "" {
		return dates.TimeOfDay{}, false
	}
	t, err := dates.ParseClockFlexible(b.TimeRequested)
	if err != nil {
		return dates.TimeOfDay{}, false
	}
	return t, true
}

// CreateBookingRequest is the request body for creating a booking. Status is
// not a field: new bookings always start pending.
type CreateBookingRequest struct {
	ArtistID      string   `json:"-"`
	ClientName    string   `json:"client_name"`
	DateRequested string   `json:"date_requested,omitempty"`
	TimeRequested string   `json:"time_requested,omitempty"`
	ServiceTitle  string   `json:"service_title,omitempty"`
	ServicePrice  *float64 `json:"service_price,omitempty"`
	Note          string   `json:"note,omitempty"`
}

// Validate checks required fields and the optional date/time formats.
func (r *CreateBookingRequest) Validate() error {
	if strings.TrimSpace(r.ArtistID) == "" {
		return ErrMissingArtistID
	}
	if strings.TrimSpace(r.ClientName) == "" {
		return ErrMissingClientName
	}
	if r.DateRequested != "" {
		if _, err := dates.ParseDate(r.DateRequested); err != nil {
			return err
		}
	}
	if r.TimeRequested != "" {
		if _, err := dates.ParseClockFlexible(r.TimeRequested); err != nil {
			return err
		}
	}
	return nil
}

// toBooking builds the pending booking a validated request describes.
func (r *CreateBookingRequest) toBooking(id string, now time.Time) *Booking {
	b := &Booking{
		ID:            id,
		ArtistID:      r.ArtistID,
		ClientName:    strings.TrimSpace(r.ClientName),
		TimeRequested: strings.TrimSpace(r.TimeRequested),
		ServiceTitle:  strings.TrimSpace(r.ServiceTitle),
		ServicePrice:  r.ServicePrice,
		Note:          r.Note,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if r.DateRequested != "" {
		d, _ := dates.ParseDate(r.DateRequested)
		b.DateRequested = &d
	}
	return b
}
