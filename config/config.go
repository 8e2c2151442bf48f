package config

import (
	"os"
	"time"
)

// Config carries the console's runtime settings. Everything comes from the
// environment; main loads an optional .env file first.
type Config struct {
	// APIBaseURL is the root of the upstream work-order REST API,
	// e.g. "http://127.0.0.1:8000/api".
	APIBaseURL string

	ListenAddr string

	// SessionDatabaseURL is the mysql DSN of the session store.
	SessionDatabaseURL string

	SessionTTL time.Duration
}

func Load() *Config {
	return &Config{
		APIBaseURL:         getEnv("API_BASE_URL", "http://127.0.0.1:8000/api"),
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		SessionDatabaseURL: getEnv("SESSION_DATABASE_URL", "root:root@(127.0.0.1:3306)/fieldops?charset=utf8mb4&parseTime=True&loc=Local"),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
