package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultBackendURL     = "http://localhost:3000/api"
	defaultDBPath         = "./printdesk.db"
	defaultPort           = "8080"
	defaultEnv            = "development"
	defaultLogLevel       = "info"
	defaultCurrency       = "₱"
	defaultRequestTimeout = 15 * time.Second
	defaultDashboardPoll  = 30 * time.Second
	defaultOrdersPoll     = 60 * time.Second
	defaultCalendarPoll   = 120 * time.Second
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env            string
	Port           string
	BackendURL     string
	DBPath         string
	LogLevel       string
	Currency       string
	RequestTimeout time.Duration
	// Poll intervals per data kind.
	DashboardPoll time.Duration
	OrdersPoll    time.Duration
	CalendarPoll  time.Duration
}

// IsDev reports whether the console runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real env vars and has no .env file.
	if err := loadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg := Config{
		Env:            getEnv("PRINTDESK_ENV", defaultEnv),
		Port:           getEnv("PORT", defaultPort),
		BackendURL:     strings.TrimRight(getEnv("PRINTDESK_BACKEND_URL", defaultBackendURL), "/"),
		DBPath:         getEnv("PRINTDESK_DB_PATH", defaultDBPath),
		LogLevel:       getEnv("PRINTDESK_LOG_LEVEL", defaultLogLevel),
		Currency:       getEnv("PRINTDESK_CURRENCY", defaultCurrency),
		RequestTimeout: getDuration("PRINTDESK_REQUEST_TIMEOUT", defaultRequestTimeout),
		DashboardPoll:  getDuration("PRINTDESK_POLL_DASHBOARD", defaultDashboardPoll),
		OrdersPoll:     getDuration("PRINTDESK_POLL_ORDERS", defaultOrdersPoll),
		CalendarPoll:   getDuration("PRINTDESK_POLL_CALENDAR", defaultCalendarPoll),
	}

	return cfg
}

// loadDotEnv loads KEY=VALUE pairs from path without overwriting variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", fallback).Msg("invalid duration, using default")
		return fallback
	}
	return d
}
