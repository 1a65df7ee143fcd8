package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	CORSAllowedOrigins []string
	RateLimitPerSec    float64
	RateLimitBurst     int
	DefaultView        string
	ShutdownTimeout    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
		RateLimitPerSec:    getEnvAsFloat("RATE_LIMIT_PER_SEC", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		DefaultView:        strings.ToLower(getEnv("DEFAULT_CALENDAR_VIEW", "week")),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping empty
// entries.
func getEnvAsSlice(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
