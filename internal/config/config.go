package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration from environment variables.
type Config struct {
	Port         int
	DBPath       string
	StationsPath string // empty means the asset bundled in the binary
	APIURL       string
	APIKey       string

	AlertsURL      string
	AlertsInterval time.Duration

	SessionCapacity int           // live map screens kept in memory
	SessionTTL      time.Duration // idle time before a screen is dropped
	SelectionMaxAge time.Duration // persisted trips older than this are purged
	CookieSecret    string        // HMAC key for signing session cookies
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            envInt("BARTNOW_PORT", 8080),
		DBPath:          envStr("BARTNOW_DB_PATH", "./bartnow.db"),
		StationsPath:    envStr("BARTNOW_STATIONS_PATH", ""),
		APIURL:          envStr("BARTNOW_API_URL", "https://api.bart.gov/api"),
		APIKey:          envStr("BARTNOW_API_KEY", "MW9S-E7SL-26DU-VV8V"), // BART's public key
		AlertsURL:       envStr("BARTNOW_ALERTS_URL", "https://api.bart.gov/gtfsrt/alerts.aspx"),
		AlertsInterval:  envDuration("BARTNOW_ALERTS_INTERVAL", 60*time.Second),
		SessionCapacity: envPositiveInt("BARTNOW_SESSION_CAPACITY", 1000),
		SessionTTL:      envDuration("BARTNOW_SESSION_TTL", 2*time.Hour),
		SelectionMaxAge: envDuration("BARTNOW_SELECTION_MAX_AGE", 30*24*time.Hour),
		CookieSecret:    envStr("BARTNOW_COOKIE_SECRET", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envPositiveInt is envInt for sizes, where zero or less is never valid.
func envPositiveInt(key string, fallback int) int {
	if n := envInt(key, fallback); n > 0 {
		return n
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
