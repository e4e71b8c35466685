// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Application environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config validation errors.
var (
	ErrInvalidEnv        = errors.New("invalid APP_ENV")
	ErrInvalidLogLevel   = errors.New("invalid LOG_LEVEL")
	ErrInvalidLogFormat  = errors.New("invalid LOG_FORMAT")
	ErrInvalidPort       = errors.New("invalid APP_PORT")
	ErrInvalidIDStrategy = errors.New("invalid USER_ID_STRATEGY")
	ErrInvalidRateLimit  = errors.New("invalid rate limit settings")
	ErrInvalidBodySize   = errors.New("invalid MAX_REQUEST_BODY_SIZE")
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	AppName    string `env:"APP_NAME" envDefault:"userapi"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`
	AppHost    string `env:"APP_HOST" envDefault:"0.0.0.0"`
	AppPort    int    `env:"APP_PORT" envDefault:"3000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins; "*" allows any origin.
	CORSAllowedOrigins   string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	CORSAllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`

	// Rate limiting (accepted but not enforced)
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// User id strategy: sequential, uuid or ulid
	UserIDStrategy string `env:"USER_ID_STRATEGY" envDefault:"sequential"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	switch c.AppEnv {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEnv, c.AppEnv)
	}

	switch c.LogLevel {
	case "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}

	if c.AppPort < 0 || c.AppPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.AppPort)
	}

	switch c.UserIDStrategy {
	case "sequential", "uuid", "ulid":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidIDStrategy, c.UserIDStrategy)
	}

	if c.RateLimitWindow <= 0 || c.RateLimitMax <= 0 {
		return ErrInvalidRateLimit
	}

	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBodySize, c.MaxRequestBodySize)
	}

	return nil
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
