package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/salonbook/internal/dates"
)

// pgxQuerier is the subset of pgxpool.Pool the repository needs. Tests
// inject a pgxmock implementation.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	db pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithQuerier allows injecting mocks for tests.
func NewPostgresRepositoryWithQuerier(db pgxQuerier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new pending row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	var dateVal any
	if req.DateRequested != "" {
		d, _ := dates.ParseDate(req.DateRequested)
		dateVal = d.Time(time.UTC)
	}

	query := `
		INSERT INTO bookings (id, artist_id, client_name, date_requested, time_requested, service_title, service_price, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.ArtistID,
		req.ClientName,
		dateVal,
		nullableText(req.TimeRequested),
		nullableText(req.ServiceTitle),
		req.ServicePrice,
		nullableText(req.Note),
		string(StatusPending),
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}

	b := req.toBooking(id.String(), createdAt)
	b.UpdatedAt = updatedAt
	return b, nil
}

// GetByID fetches a booking scoped to the artist.
func (r *PostgresRepository) GetByID(ctx context.Context, artistID, id string) (*Booking, error) {
	query := selectColumns + ` WHERE id = $1 AND artist_id = $2`
	row := r.db.QueryRow(ctx, query, id, artistID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return b, nil
}

// ListByArtist returns bookings inside the date window, ordered by creation
// so downstream stable sorts see a deterministic base order. Undated rows
// are included only when the filter asks for them.
func (r *PostgresRepository) ListByArtist(ctx context.Context, artistID string, filter ListFilter) ([]*Booking, error) {
	query := selectColumns + `
		WHERE artist_id = $1
		  AND date_requested IS NOT NULL
		  AND ($2::date IS NULL OR date_requested >= $2)
		  AND ($3::date IS NULL OR date_requested <= $3)
	`
	if filter.IncludeUndated {
		query = selectColumns + `
		WHERE artist_id = $1
		  AND (date_requested IS NULL
		       OR (($2::date IS NULL OR date_requested >= $2)
		           AND ($3::date IS NULL OR date_requested <= $3)))
		`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, artistID, windowBound(filter.From), windowBound(filter.To))
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: iterate failed: %w", err)
	}
	return out, nil
}

// UpdateStatus persists the new status and returns the updated row.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, artistID, id string, status Status, declineReason string) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3,
		    decline_reason = COALESCE(NULLIF($4, ''), decline_reason),
		    updated_at = now()
		WHERE id = $1 AND artist_id = $2
		RETURNING ` + bookingColumns
	row := r.db.QueryRow(ctx, query, id, artistID, string(status), declineReason)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("bookings: update status failed: %w", err)
	}
	return b, nil
}

const bookingColumns = `id, artist_id, client_name, date_requested, time_requested, service_title, service_price, note, status, decline_reason, created_at, updated_at`

const selectColumns = `SELECT ` + bookingColumns + ` FROM bookings`

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b             Booking
		dateRequested *time.Time
		timeRequested *string
		serviceTitle  *string
		note          *string
		declineReason *string
		rawStatus     string
	)
	if err := row.Scan(
		&b.ID,
		&b.ArtistID,
		&b.ClientName,
		&dateRequested,
		&timeRequested,
		&serviceTitle,
		&b.ServicePrice,
		&note,
		&rawStatus,
		&declineReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if dateRequested != nil {
		d := dates.DateOf(*dateRequested)
		b.DateRequested = &d
	}
	if timeRequested != nil {
		b.TimeRequested = *timeRequested
	}
	if serviceTitle != nil {
		b.ServiceTitle = *serviceTitle
	}
	if note != nil {
		b.Note = *note
	}
	if declineReason != nil {
		b.DeclineReason = *declineReason
	}

	// Legacy rows may hold alias names; canonicalize on read so the rest of
	// the system only ever sees canonical statuses.
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	b.Status = status

	return &b, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func windowBound(d dates.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time(time.UTC)
}
