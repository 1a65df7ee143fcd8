package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glowdesk/salonbook/internal/api/router"
	"github.com/glowdesk/salonbook/internal/app/bootstrap"
	"github.com/glowdesk/salonbook/internal/bookings"
	"github.com/glowdesk/salonbook/internal/calendar"
	appconfig "github.com/glowdesk/salonbook/internal/config"
	"github.com/glowdesk/salonbook/internal/live"
	"github.com/glowdesk/salonbook/internal/observability/metrics"
	"github.com/glowdesk/salonbook/internal/ops"
	"github.com/glowdesk/salonbook/internal/settings"
	"github.com/glowdesk/salonbook/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting salonbook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	calMetrics := metrics.NewCalendarMetrics(registry)

	// Booking storage: Postgres when configured, in-memory otherwise.
	ctx := context.Background()
	var repo bookings.Repository
	if pool := bootstrap.BuildBookingsPool(ctx, cfg, logger); pool != nil {
		defer pool.Close()
		repo = bookings.NewPostgresRepository(pool)
		logger.Info("using postgres booking repository")
	} else {
		repo = bookings.NewInMemoryRepository()
		logger.Warn("no database configured, bookings held in memory")
	}

	hub := live.NewHub(logger)
	service := bookings.NewService(repo, hub, calMetrics, logger)
	calendarHandler := calendar.NewHandler(service, calMetrics, logger)
	if view, err := calendar.ParseViewType(cfg.DefaultView); err == nil {
		calendarHandler.SetDefaultView(view)
	} else {
		logger.Warn("invalid DEFAULT_CALENDAR_VIEW, using day", "value", cfg.DefaultView)
	}

	// Artist preferences need Redis; the handler stays unmounted without it.
	var settingsHandler *settings.Handler
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		settingsHandler = settings.NewHandler(settings.NewStore(redisClient), logger)
	} else {
		logger.Warn("no redis configured, settings endpoints disabled")
	}

	var opsHandler *ops.DashboardHandler
	if sqlDB := bootstrap.BuildSQLDB(cfg, logger); sqlDB != nil {
		defer func() { _ = sqlDB.Close() }()
		opsHandler = ops.NewDashboardHandler(ops.NewDashboardRepository(sqlDB), registry, logger)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		CalendarHandler:    calendarHandler,
		SettingsHandler:    settingsHandler,
		LiveHub:            hub,
		OpsDashboard:       opsHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		LatencyObserver:    calMetrics,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSec:    cfg.RateLimitPerSec,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
