package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glowdesk/salonbook/internal/calendar"
	httpmiddleware "github.com/glowdesk/salonbook/internal/http/middleware"
	"github.com/glowdesk/salonbook/internal/live"
	"github.com/glowdesk/salonbook/internal/ops"
	"github.com/glowdesk/salonbook/internal/settings"
	"github.com/glowdesk/salonbook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	CalendarHandler *calendar.Handler
	SettingsHandler *settings.Handler
	LiveHub         *live.Hub
	OpsDashboard    *ops.DashboardHandler
	MetricsHandler  http.Handler
	LatencyObserver httpmiddleware.LatencyObserver

	CORSAllowedOrigins []string
	RateLimitPerSec    float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger, cfg.LatencyObserver))
	}
	if cfg.RateLimitPerSec > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.LiveHub != nil {
			public.Get("/live", cfg.LiveHub.HandleWebSocket)
		}
	})

	// Artist-scoped API routes
	r.Route("/artists/{artistID}", func(artist chi.Router) {
		artist.Use(requireArtistID)
		if cfg.CalendarHandler != nil {
			cfg.CalendarHandler.Routes(artist)
		}
		if cfg.SettingsHandler != nil {
			cfg.SettingsHandler.Routes(artist)
		}
	})

	// Staff dashboards
	if cfg.OpsDashboard != nil {
		r.Get("/ops/artists/{artistID}/dashboard", cfg.OpsDashboard.GetDashboard)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
