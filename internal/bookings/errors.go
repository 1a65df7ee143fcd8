package bookings

import "errors"

var (
	// ErrNotFound is returned when a booking does not exist in the caller's
	// artist scope.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidStatus is returned when a status string cannot be
	// canonicalized.
	ErrInvalidStatus = errors.New("unknown booking status")

	// ErrInvalidTransition is returned when a status change is not in the
	// transition table.
	ErrInvalidTransition = errors.New("illegal status transition")

	// ErrMissingClientName is returned when a booking request has no client.
	ErrMissingClientName = errors.New("client name is required")

	// ErrMissingArtistID is returned when a booking request has no artist
	// scope.
	ErrMissingArtistID = errors.New("artist id is required")
)
