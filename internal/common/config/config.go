// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Portal        PortalConfig        `mapstructure:"portal"`
	Session       SessionConfig       `mapstructure:"session"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// PortalConfig holds settings for the remote admission portal API.
type PortalConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	UploadTimeout  int    `mapstructure:"upload_timeout"`  // milliseconds, multipart requests
	MaxDocumentKB  int    `mapstructure:"max_document_kb"` // per-file size guard
}

// RequestTimeout returns the plain-request timeout as a duration.
func (p PortalConfig) RequestTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Millisecond
}

// MultipartTimeout returns the upload timeout, falling back to the
// plain-request timeout when unset.
func (p PortalConfig) MultipartTimeout() time.Duration {
	if p.UploadTimeout > 0 {
		return time.Duration(p.UploadTimeout) * time.Millisecond
	}
	return p.RequestTimeout()
}

// SessionConfig holds settings for the local session cache (the stand-in
// for the original portal's browser storage).
type SessionConfig struct {
	Backend string      `mapstructure:"backend"` // "redis" or "memory"
	TTL     int         `mapstructure:"ttl"`     // seconds
	Redis   RedisConfig `mapstructure:"redis"`
}

func (s SessionConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Second
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds metrics and tracing settings.
type ObservabilityConfig struct {
	MetricsAddress string `mapstructure:"metrics_address"` // promhttp listen address, empty disables
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"` // collector endpoint, empty disables tracing
}

func validateConfig(cfg *Config) error {
	if cfg.Portal.BaseURL == "" {
		return fmt.Errorf("portal.base_url is required")
	}
	switch cfg.Session.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("session.backend must be redis or memory, got %q", cfg.Session.Backend)
	}
	if cfg.Session.Backend == "redis" && cfg.Session.Redis.Address == "" {
		return fmt.Errorf("session.redis.address is required for the redis backend")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "admission-portal"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Portal.Timeout == 0 {
		cfg.Portal.Timeout = 15000
	}
	if cfg.Portal.UploadTimeout == 0 {
		cfg.Portal.UploadTimeout = 60000
	}
	if cfg.Portal.MaxDocumentKB == 0 {
		cfg.Portal.MaxDocumentKB = 2048
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "memory"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 3600
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
