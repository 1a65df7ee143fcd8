package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/salonbook/internal/dates"
)

// ListFilter narrows a booking listing. Zero dates leave that side of the
// window open.
type ListFilter struct {
	From dates.Date
	To   dates.Date
	// IncludeUndated keeps bookings with no requested date in the result.
	// Calendar views drop them anyway, but the plain listing shows them so
	// the operator can still act on them.
	IncludeUndated bool
}

// Repository is the single mutation and snapshot boundary for bookings.
// Views receive read-only snapshots from ListByArtist and never mutate them;
// all writes funnel through Create and UpdateStatus.
type Repository interface {
	Create(ctx context.Context, req *CreateBookingRequest) (*Booking, error)
	GetByID(ctx context.Context, artistID, id string) (*Booking, error)
	ListByArtist(ctx context.Context, artistID string, filter ListFilter) ([]*Booking, error)
	UpdateStatus(ctx context.Context, artistID, id string, status Status, declineReason string) (*Booking, error)
}

// InMemoryRepository implements Repository with a mutex-guarded map. It backs
// tests and DATABASE_URL-less development runs.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
	order    []string // insertion order, the tie-break for listings
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[string]*Booking),
	}
}

// Create validates the request and stores a pending booking.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := req.toBooking(uuid.New().String(), time.Now().UTC())

	r.mu.Lock()
	r.bookings[b.ID] = b
	r.order = append(r.order, b.ID)
	r.mu.Unlock()

	return copyBooking(b), nil
}

// GetByID retrieves a booking scoped to the artist.
func (r *InMemoryRepository) GetByID(ctx context.Context, artistID, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok || b.ArtistID != artistID {
		return nil, ErrNotFound
	}
	return copyBooking(b), nil
}

// ListByArtist returns the artist's bookings in insertion order, filtered by
// the date window.
func (r *InMemoryRepository) ListByArtist(ctx context.Context, artistID string, filter ListFilter) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Booking, 0)
	for _, id := range r.order {
		b := r.bookings[id]
		if b.ArtistID != artistID {
			continue
		}
		if !matchesWindow(b, filter) {
			continue
		}
		out = append(out, copyBooking(b))
	}
	return out, nil
}

// UpdateStatus persists a new status. Transition legality is the service's
// concern; the repository only checks existence and scope.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, artistID, id string, status Status, declineReason string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.ArtistID != artistID {
		return nil, ErrNotFound
	}
	b.Status = status
	if status == StatusDeclined && declineReason != "" {
		b.DeclineReason = declineReason
	}
	b.UpdatedAt = time.Now().UTC()
	return copyBooking(b), nil
}

func matchesWindow(b *Booking, filter ListFilter) bool {
	if b.DateRequested == nil {
		return filter.IncludeUndated
	}
	if !filter.From.IsZero() && b.DateRequested.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && filter.To.Before(*b.DateRequested) {
		return false
	}
	return true
}

// copyBooking hands out an independent copy so callers cannot mutate the
// stored row through the snapshot.
func copyBooking(b *Booking) *Booking {
	out := *b
	if b.DateRequested != nil {
		d := *b.DateRequested
		out.DateRequested = &d
	}
	if b.ServicePrice != nil {
		p := *b.ServicePrice
		out.ServicePrice = &p
	}
	return &out
}
