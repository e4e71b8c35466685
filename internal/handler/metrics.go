package handler

import (
	"fmt"
	"net/http"

	"github.com/restdemo/userapi/internal/metrics"
)

// MetricsHandler serves the in-memory counters as plain-text exposition.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a MetricsHandler. A nil snapshotter makes
// the endpoint report 503.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

type counter struct {
	name  string
	help  string
	value uint64
}

// Metrics writes one counter per line, each with HELP and TYPE comments.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		http.Error(w, "metrics disabled", http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()
	counters := []counter{
		{"userapi_users_created_total", "Users created.", snap.UsersCreated},
		{"userapi_users_updated_total", "Users updated.", snap.UsersUpdated},
		{"userapi_users_deleted_total", "Users deleted.", snap.UsersDeleted},
		{"userapi_user_searches_total", "User searches served.", snap.UserSearches},
		{"userapi_validation_failures_total", "Requests rejected by input validation.", snap.ValidationFailures},
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	for _, c := range counters {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", c.name, c.help, c.name, c.name, c.value)
	}
}
