package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// RateLimitConfig holds the configured request budget per window.
type RateLimitConfig struct {
	Logger *slog.Logger
	Window time.Duration
	Max    int
}

// RateLimit is the slot for request throttling. The budget is accepted and
// logged once, but every request is passed through.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Logger != nil {
		cfg.Logger.Debug("rate limiting not enforced",
			slog.Duration("window", cfg.Window),
			slog.Int("max", cfg.Max),
		)
	}

	return func(next http.Handler) http.Handler {
		return next
	}
}
