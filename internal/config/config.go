// Package config loads server configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// StoreBackend selects which Store implementation the server wires up.
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StorePostgres StoreBackend = "postgres"
)

// Config is the full set of server-tunable settings.
type Config struct {
	HTTPAddr                string
	LogLevel                string
	LogPretty               bool
	StoreBackend            StoreBackend
	PostgresDSN             string
	RedisAddr               string
	DefaultMaxSeats         int
	BotAutoFillDelaySeconds int
}

var (
	cfg      *Config
	loadOnce sync.Once
	loadErr  error
)

// Load reads configuration from the environment, loading envPath first (if
// it exists) via godotenv. Safe to call multiple times; only the first
// call does the work.
func Load(envPath string) (*Config, error) {
	loadOnce.Do(func() {
		if envPath != "" {
			if _, err := os.Stat(envPath); err == nil {
				if err := godotenv.Load(envPath); err != nil {
					loadErr = fmt.Errorf("failed to load env file: %w", err)
					return
				}
			}
		}

		maxSeats, err := strconv.Atoi(getEnv("DEFAULT_MAX_SEATS", "4"))
		if err != nil {
			loadErr = fmt.Errorf("invalid DEFAULT_MAX_SEATS: %w", err)
			return
		}
		autoFillDelay, err := strconv.Atoi(getEnv("BOT_AUTOFILL_DELAY_SECONDS", "5"))
		if err != nil {
			loadErr = fmt.Errorf("invalid BOT_AUTOFILL_DELAY_SECONDS: %w", err)
			return
		}

		cfg = &Config{
			HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
			LogLevel:                getEnv("LOG_LEVEL", "info"),
			LogPretty:               getEnv("LOG_PRETTY", "false") == "true",
			StoreBackend:            StoreBackend(getEnv("STORE_BACKEND", string(StoreMemory))),
			PostgresDSN:             getEnv("POSTGRES_DSN", ""),
			RedisAddr:               getEnv("REDIS_ADDR", ""),
			DefaultMaxSeats:         maxSeats,
			BotAutoFillDelaySeconds: autoFillDelay,
		}
	})
	return cfg, loadErr
}

// Get returns the already-loaded configuration, or nil if Load has not run.
func Get() *Config {
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
