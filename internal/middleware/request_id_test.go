package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"absent", "", false},
		{"kept", "abc-123", true},
		{"max length", strings.Repeat("a", maxRequestIDLength), true},
		{"too long", strings.Repeat("a", maxRequestIDLength+1), false},
		{"contains space", "abc 123", false},
		{"control character", "abc\n123", false},
		{"non ascii", "abcé", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if fromCtx != got {
				t.Errorf("context id %q != header id %q", fromCtx, got)
			}
			if tt.keep {
				if got != tt.incoming {
					t.Errorf("id = %q, want %q", got, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("expected generated uuid, got %q", got)
			}
		})
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID = %q, want empty", got)
	}
	if got := GetRequestID(WithRequestID(context.Background(), "x")); got != "x" {
		t.Errorf("GetRequestID = %q, want x", got)
	}
}
