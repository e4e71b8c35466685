package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler(nil, testInfo())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h.started = start
	h.now = func() time.Time { return start.Add(90 * time.Second) }

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response struct {
		Success bool       `json:"success"`
		Message string     `json:"message"`
		Data    HealthData `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !response.Success || response.Message != "Service is healthy" {
		t.Errorf("unexpected envelope: %+v", response)
	}
	if response.Data.Uptime != 90 {
		t.Errorf("expected uptime 90, got %v", response.Data.Uptime)
	}
	if !response.Data.Timestamp.Equal(start.Add(90 * time.Second)) {
		t.Errorf("unexpected timestamp %s", response.Data.Timestamp)
	}
	if response.Data.Version != "1.2.3" || response.Data.Environment != "test" {
		t.Errorf("unexpected version/env: %s/%s", response.Data.Version, response.Data.Environment)
	}
	if response.Data.Memory["sys"] == 0 {
		t.Error("expected memory stats")
	}
	if response.Data.Users != nil {
		t.Errorf("expected no user count without a store, got %d", *response.Data.Users)
	}
}

// countingStore is a HealthChecker that also reports its size.
type countingStore struct {
	mockHealthChecker
	n int
}

func (c *countingStore) Len() int {
	return c.n
}

func TestHealthHandler_HealthUserCount(t *testing.T) {
	h := NewHealthHandler(&countingStore{n: 7}, testInfo())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response struct {
		Data HealthData `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.Users == nil || *response.Data.Users != 7 {
		t.Errorf("expected users 7, got %v", response.Data.Users)
	}
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler(nil, testInfo())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		store      HealthChecker
		wantCode   int
		wantStatus string
		wantCheck  string
	}{
		{"healthy", &mockHealthChecker{}, http.StatusOK, "ok", "ok"},
		{"store closed", &mockHealthChecker{err: errors.New("store is closed")}, http.StatusServiceUnavailable, "unhealthy", "error: store is closed"},
		{"not configured", nil, http.StatusOK, "ok", "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.store, testInfo())

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()

			h.Readyz(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}

			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if response.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, response.Status)
			}
			if response.Checks["store"] != tt.wantCheck {
				t.Errorf("expected store check %q, got %q", tt.wantCheck, response.Checks["store"])
			}
		})
	}
}
