package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from environment
// variables with sensible defaults for local development.
type Config struct {
	Port         string
	BaseURL      string
	DatabasePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTL     time.Duration
	ViewCacheTTL time.Duration

	GeoIPDBPath string

	ClickWorkers int
	ClickBuffer  int

	CreateRateLimit   int
	CreateRateWindow  time.Duration
	OverallRateLimit  int
	OverallRateWindow time.Duration
}

// Load reads configuration from the environment. A .env file is applied
// first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		DatabasePath: getEnv("DATABASE_PATH", "linklytics.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheTTL:     getEnvDuration("CACHE_TTL", time.Hour),
		ViewCacheTTL: getEnvDuration("VIEW_CACHE_TTL", 5*time.Minute),

		GeoIPDBPath: getEnv("GEOIP_DB_PATH", ""),

		ClickWorkers: getEnvInt("CLICK_WORKERS", 4),
		ClickBuffer:  getEnvInt("CLICK_BUFFER", 1024),

		CreateRateLimit:   getEnvInt("CREATE_RATE_LIMIT", 10),
		CreateRateWindow:  getEnvDuration("CREATE_RATE_WINDOW", time.Minute),
		OverallRateLimit:  getEnvInt("OVERALL_RATE_LIMIT", 30),
		OverallRateWindow: getEnvDuration("OVERALL_RATE_WINDOW", time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
