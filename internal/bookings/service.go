package bookings

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/glowdesk/salonbook/internal/dates"
	"github.com/glowdesk/salonbook/pkg/logging"
)

var bookingTracer = otel.Tracer("salonbook.internal.bookings")

// RefreshNotifier tells connected calendar clients to refetch after a
// mutation. The live feed implements it; a nil notifier is a no-op.
type RefreshNotifier interface {
	BroadcastRefresh(artistID string)
}

// TransitionObserver records status transitions for metrics.
type TransitionObserver interface {
	ObserveTransition(from, to string)
}

// Service owns booking mutations. All status changes pass through
// ChangeStatus, which enforces the transition table; nothing in this layer
// updates state optimistically. Callers refetch the snapshot after the
// mutation resolves.
type Service struct {
	repo     Repository
	notifier RefreshNotifier
	observer TransitionObserver
	logger   *logging.Logger
}

// NewService wires a booking service. notifier and observer may be nil.
func NewService(repo Repository, notifier RefreshNotifier, observer TransitionObserver, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		observer: observer,
		logger:   logger,
	}
}

// Create stores a new pending booking.
func (s *Service) Create(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	b, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		"booking_id", b.ID,
		"artist_id", b.ArtistID,
		"client", b.ClientName,
	)

	if s.notifier != nil {
		s.notifier.BroadcastRefresh(b.ArtistID)
	}
	return b, nil
}

// GetByID fetches one booking in the artist's scope.
func (s *Service) GetByID(ctx context.Context, artistID, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, artistID, id)
}

// Snapshot returns the read-only booking list the calendar views consume.
// Undated bookings are excluded here because no view can place them.
func (s *Service) Snapshot(ctx context.Context, artistID string, from, to dates.Date) ([]*Booking, error) {
	return s.repo.ListByArtist(ctx, artistID, ListFilter{From: from, To: to})
}

// List returns the artist's bookings including undated ones.
func (s *Service) List(ctx context.Context, artistID string, filter ListFilter) ([]*Booking, error) {
	filter.IncludeUndated = true
	return s.repo.ListByArtist(ctx, artistID, filter)
}

// ChangeStatus canonicalizes the requested status, verifies the transition
// against the current row, and persists it. Illegal moves return
// ErrInvalidTransition without touching storage.
func (s *Service) ChangeStatus(ctx context.Context, artistID, id, rawStatus, declineReason string) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "bookings.ChangeStatus", trace.WithAttributes(
		attribute.String("booking.id", id),
		attribute.String("booking.target_status", rawStatus),
	))
	defer span.End()

	target, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, artistID, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(current.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, target)
	}

	// A reason only makes sense on a decline; drop it for other targets so
	// the repositories never have to decide.
	if target != StatusDeclined {
		declineReason = ""
	}

	updated, err := s.repo.UpdateStatus(ctx, artistID, id, target, declineReason)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("booking.previous_status", string(current.Status)))
	s.logger.Info("booking status changed",
		"booking_id", id,
		"artist_id", artistID,
		"from", current.Status,
		"to", target,
	)

	if s.observer != nil {
		s.observer.ObserveTransition(string(current.Status), string(target))
	}
	if s.notifier != nil {
		s.notifier.BroadcastRefresh(artistID)
	}
	return updated, nil
}
