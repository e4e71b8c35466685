// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/restdemo/userapi/internal/handler/dto"
	"github.com/restdemo/userapi/internal/middleware"
)

// AppInfo identifies the running service in responses.
type AppInfo struct {
	Name        string
	Version     string
	Environment string
	// Development exposes internal error messages in 500 responses.
	Development bool
}

// Handler serves the root and fallback routes.
type Handler struct {
	info AppInfo
}

// New creates a new Handler instance.
func New(info AppInfo) *Handler {
	return &Handler{info: info}
}

// RootResponse is the data payload of GET /.
type RootResponse struct {
	Version     string            `json:"version"`
	Endpoints   map[string]string `json:"endpoints"`
	Environment string            `json:"environment"`
}

// Root describes the service.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.Success("Welcome to the User API", RootResponse{
		Version: h.info.Version,
		Endpoints: map[string]string{
			"health": "/health",
			"users":  "/api/users",
			"docs":   "/api/docs",
		},
		Environment: h.info.Environment,
	}))
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNotFound, dto.Failure(
		"Not Found",
		fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path),
	))
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusMethodNotAllowed, dto.Failure(
		"Method Not Allowed",
		fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path),
	))
}

// writeJSON writes a JSON response with the given status code, indented when
// the request asked for pretty output.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	if middleware.IsPretty(r.Context()) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		slog.Default().Debug("response encode failed", slog.String("error", err.Error()))
	}
}
