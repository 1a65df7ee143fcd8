// Command seed loads a handful of demo bookings for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/glowdesk/salonbook/internal/bookings"
)

func main() {
	_ = godotenv.Load()

	artistID := flag.String("artist", "demo-artist", "artist id to seed bookings for")
	flag.Parse()

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("open pool: %v", err)
	}
	defer pool.Close()

	repo := bookings.NewPostgresRepository(pool)

	today := time.Now().Format("2006-01-02")
	nextWeek := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	price := func(v float64) *float64 { return &v }
	requests := []*bookings.CreateBookingRequest{
		{
			ArtistID:      *artistID,
			ClientName:    "Ana Reyes",
			DateRequested: today,
			TimeRequested: "09:00",
			ServiceTitle:  "Balayage",
			ServicePrice:  price(220),
			Note:          "first visit",
		},
		{
			ArtistID:      *artistID,
			ClientName:    "Bea Lam",
			DateRequested: today,
			TimeRequested: "2:30 PM",
			ServiceTitle:  "Gel Manicure",
			ServicePrice:  price(55),
		},
		{
			ArtistID:      *artistID,
			ClientName:    "Cora Diaz",
			DateRequested: today,
			TimeRequested: "sometime in the afternoon",
			ServiceTitle:  "Brow Lamination",
			ServicePrice:  price(80),
		},
		{
			ArtistID:      *artistID,
			ClientName:    "Dina Okafor",
			DateRequested: nextWeek,
			TimeRequested: "11:00",
			ServiceTitle:  "Root Touch-Up",
			ServicePrice:  price(120),
			Note:          "color match from last visit",
		},
		{
			ArtistID:     *artistID,
			ClientName:   "Eve Moreau",
			ServiceTitle: "Consultation",
			Note:         "no date picked yet",
		},
	}

	for _, req := range requests {
		if err := req.Validate(); err != nil {
			log.Fatalf("invalid seed request for %s: %v", req.ClientName, err)
		}
		b, err := repo.Create(ctx, req)
		if err != nil {
			log.Fatalf("create booking for %s: %v", req.ClientName, err)
		}
		fmt.Printf("seeded booking %s for %s\n", b.ID, b.ClientName)
	}

	fmt.Printf("seeded %d bookings for artist %s\n", len(requests), *artistID)
}
