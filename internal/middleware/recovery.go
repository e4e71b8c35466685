package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecovererConfig controls how recovered panics are reported.
type RecovererConfig struct {
	Logger *slog.Logger
	// ExposeErrors puts the panic value into the response "error" field.
	// Only enable in development.
	ExposeErrors bool
}

// Recoverer is a middleware that recovers from panics.
// It logs the panic and returns a 500 envelope.
func Recoverer(cfg RecovererConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				cfg.Logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				errMsg := "Something went wrong"
				if cfg.ExposeErrors {
					errMsg = fmt.Sprint(rvr)
				}
				writeEnvelope(w, http.StatusInternalServerError, "Internal Server Error", errMsg)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
