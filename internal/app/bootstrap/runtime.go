package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/glowdesk/salonbook/internal/config"
	"github.com/glowdesk/salonbook/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildBookingsPool opens a pgx pool against the configured database, or
// returns nil when no DATABASE_URL is set so callers can fall back to the
// in-memory repository.
func BuildBookingsPool(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *pgxpool.Pool {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("database not available", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Warn("database ping failed", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// BuildSQLDB opens a database/sql handle over the pgx stdlib driver. The ops
// dashboard aggregates through database/sql rather than the pool.
func BuildSQLDB(cfg *appconfig.Config, logger *logging.Logger) *sql.DB {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Warn("sql open failed", "error", err)
		return nil
	}
	return db
}
