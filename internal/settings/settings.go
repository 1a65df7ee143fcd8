// Package settings provides per-artist calendar preferences.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DayHours is the bookable window for a single day. Nil means the artist
// does not take bookings that day.
type DayHours struct {
	Open  string `json:"open"`  // "09:00" in 24-hour format
	Close string `json:"close"` // "18:00" in 24-hour format
}

// WeekHours maps day names to their bookable hours.
type WeekHours struct {
	Sunday    *DayHours `json:"sunday,omitempty"`
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
}

// ForWeekday returns the hours for a given weekday.
func (w *WeekHours) ForWeekday(day time.Weekday) *DayHours {
	switch day {
	case time.Sunday:
		return w.Sunday
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return nil
	}
}

// Preferences holds an artist's calendar preferences.
type Preferences struct {
	ArtistID    string `json:"artist_id"`
	DisplayName string `json:"display_name,omitempty"`
	// Timezone is an IANA name, e.g. "America/New_York".
	Timezone string `json:"timezone"`
	// DefaultView is the calendar view shown on first open: day, week or month.
	DefaultView string `json:"default_view"`
	// ShowDeclined keeps declined bookings visible on the calendar.
	ShowDeclined bool      `json:"show_declined"`
	Hours        WeekHours `json:"hours"`
}

// DefaultPreferences returns the preferences used before an artist has
// saved any.
func DefaultPreferences(artistID string) *Preferences {
	return &Preferences{
		ArtistID:     artistID,
		Timezone:     "America/New_York",
		DefaultView:  "week",
		ShowDeclined: true,
		Hours: WeekHours{
			Tuesday:   &DayHours{Open: "10:00", Close: "18:00"},
			Wednesday: &DayHours{Open: "10:00", Close: "18:00"},
			Thursday:  &DayHours{Open: "10:00", Close: "18:00"},
			Friday:    &DayHours{Open: "10:00", Close: "19:00"},
			Saturday:  &DayHours{Open: "09:00", Close: "17:00"},
		},
	}
}

// Location resolves the preference timezone, falling back to UTC when the
// stored name does not load.
func (p *Preferences) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Store persists artist preferences in Redis.
type Store struct {
	redis *redis.Client
}

// NewStore creates a preferences store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) key(artistID string) string {
	return fmt.Sprintf("artist:prefs:%s", artistID)
}

// Get retrieves an artist's preferences, returning defaults if none are
// saved yet.
func (s *Store) Get(ctx context.Context, artistID string) (*Preferences, error) {
	data, err := s.redis.Get(ctx, s.key(artistID)).Bytes()
	if err == redis.Nil {
		return DefaultPreferences(artistID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: get preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("settings: unmarshal preferences: %w", err)
	}
	return &prefs, nil
}

// Set saves an artist's preferences.
func (s *Store) Set(ctx context.Context, prefs *Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("settings: marshal preferences: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(prefs.ArtistID), data, 0).Err(); err != nil {
		return fmt.Errorf("settings: set preferences: %w", err)
	}
	return nil
}
