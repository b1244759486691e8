package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Ledger  LedgerConfig
	Auth    AuthConfig
	Refresh RefreshConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LedgerConfig points the panel at the order ledger backend.
type LedgerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig holds the gateway clients get redirected to on expired sessions,
// the accounts allowed to keep ordering while the system is closed, and the
// guest accounts whose delivery place admins must not edit.
type AuthConfig struct {
	GatewayURL     string
	BypassAccounts []string
	GuestAccounts  []string
}

// RefreshConfig holds scheduler-related settings.
type RefreshConfig struct {
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeoutSeconds, err := strconv.Atoi(getenvWithDefault("LEDGER_TIMEOUT_SECONDS", "15"))
	if err != nil {
		return nil, fmt.Errorf("LEDGER_TIMEOUT_SECONDS must be an integer: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Ledger: LedgerConfig{
			BaseURL: os.Getenv("LEDGER_BASE_URL"),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		Auth: AuthConfig{
			GatewayURL:     os.Getenv("AUTH_GATEWAY_URL"),
			BypassAccounts: splitList(os.Getenv("CLOSED_BYPASS_ACCOUNTS")),
			GuestAccounts:  splitList(os.Getenv("GUEST_ACCOUNTS")),
		},
		Refresh: RefreshConfig{
			CronSchedule: getenvWithDefault("CALENDAR_REFRESH_CRON", "*/10 * * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Ledger.BaseURL == "" {
		return errors.New("LEDGER_BASE_URL must be provided")
	}
	if c.Ledger.Timeout <= 0 {
		return errors.New("LEDGER_TIMEOUT_SECONDS must be positive")
	}

	if c.Auth.GatewayURL == "" {
		return errors.New("AUTH_GATEWAY_URL must be provided")
	}

	if c.Refresh.CronSchedule == "" {
		return errors.New("CALENDAR_REFRESH_CRON must be provided")
	}

	return nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
