// Package config loads runtime configuration from the environment and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/PratikDhanave/iss-tracker-service/internal/telemetry"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config contains runtime configuration required by the service.
type Config struct {
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DBURL       string `mapstructure:"DB_URL"`
	// APIKeysRaw format: "name:key,name:key". Empty leaves write routes open.
	APIKeysRaw       string        `mapstructure:"API_KEYS"`
	PollInterval     time.Duration `mapstructure:"POLL_INTERVAL"`
	TelemetryURL     string        `mapstructure:"TELEMETRY_URL"`
	TelemetryTimeout time.Duration `mapstructure:"TELEMETRY_TIMEOUT"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`

	APIKeys map[string]string `mapstructure:"-"` // apiKey -> client name
}

// Load reads .env (if present), then the environment, and validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DB_URL", "")
	v.SetDefault("API_KEYS", "")
	v.SetDefault("POLL_INTERVAL", "20s")
	v.SetDefault("TELEMETRY_URL", telemetry.DefaultSourceURL)
	v.SetDefault("TELEMETRY_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DBURL == "" {
			return nil, errors.New("config: DB_URL required when STORE_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.PollInterval <= 0 {
		return nil, errors.New("config: POLL_INTERVAL must be positive")
	}
	if cfg.TelemetryTimeout <= 0 {
		return nil, errors.New("config: TELEMETRY_TIMEOUT must be positive")
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	keys, err := ParseAPIKeys(cfg.APIKeysRaw)
	if err != nil {
		return nil, err
	}
	cfg.APIKeys = keys

	return &cfg, nil
}

// ParseAPIKeys parses "name:key,name:key" into a key -> name map.
func ParseAPIKeys(raw string) (map[string]string, error) {
	keys := map[string]string{}

	for _, p := range strings.Split(strings.TrimSpace(raw), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(`config: API_KEYS must be "name:key,name:key"`)
		}
		name := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if name == "" || key == "" {
			return nil, errors.New(`config: API_KEYS must be "name:key,name:key"`)
		}
		keys[key] = name
	}

	return keys, nil
}

// ParseLogLevel maps LOG_LEVEL onto a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
