package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/restdemo/userapi/internal/handler/dto"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// userCounter is implemented by stores that can report their size.
type userCounter interface {
	Len() int
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	store   HealthChecker
	info    AppInfo
	started time.Time
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for store if it is not yet initialized.
func NewHealthHandler(store HealthChecker, info AppInfo) *HealthHandler {
	return &HealthHandler{
		store:   store,
		info:    info,
		started: time.Now(),
		now:     time.Now,
	}
}

// HealthResponse represents the probe response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthData is the data payload of GET /health.
type HealthData struct {
	Timestamp   time.Time         `json:"timestamp"`
	Uptime      float64           `json:"uptime"`
	Memory      map[string]uint64 `json:"memory"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Users       *int              `json:"users,omitempty"`
}

// Health reports process details in the standard envelope.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	now := h.now()
	data := HealthData{
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.started).Seconds(),
		Memory: map[string]uint64{
			"heapAlloc":  ms.HeapAlloc,
			"heapSys":    ms.HeapSys,
			"heapInuse":  ms.HeapInuse,
			"sys":        ms.Sys,
			"totalAlloc": ms.TotalAlloc,
			"numGC":      uint64(ms.NumGC),
		},
		Version:     h.info.Version,
		Environment: h.info.Environment,
	}
	if c, ok := h.store.(userCounter); ok {
		n := c.Len()
		data.Users = &n
	}
	writeJSON(w, r, http.StatusOK, dto.Success("Service is healthy", data))
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the server is running, without dependency checks.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// It returns 200 only if the user store answers a ping.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			checks["store"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "not configured"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, r, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
