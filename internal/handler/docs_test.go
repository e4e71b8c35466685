package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/restdemo/userapi/internal/apidoc"
	"github.com/restdemo/userapi/internal/testutil"
)

func newDocsHandler(t *testing.T) *DocsHandler {
	t.Helper()

	doc, err := apidoc.Load()
	if err != nil {
		t.Fatalf("load api doc: %v", err)
	}
	return NewDocsHandler(doc, "9.9.9")
}

func TestDocsHandler_Docs(t *testing.T) {
	h := newDocsHandler(t)

	rec := httptest.NewRecorder()
	h.Docs(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	env, data := testutil.DecodeEnvelope(t, rec.Body)
	if env.Message != "API Documentation" {
		t.Errorf("unexpected message %q", env.Message)
	}

	var summary apidoc.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Version != "9.9.9" {
		t.Errorf("expected version override, got %s", summary.Version)
	}

	create, ok := summary.Endpoints["createUser"]
	if !ok {
		t.Fatal("createUser endpoint missing")
	}
	if create.Method != http.MethodPost || create.Path != "/api/users" {
		t.Errorf("unexpected createUser endpoint: %+v", create)
	}
}

func TestDocsHandler_OpenAPI(t *testing.T) {
	h := newDocsHandler(t)

	rec := httptest.NewRecorder()
	h.OpenAPI(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.yaml", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("unexpected Content-Type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "openapi: 3.0.3") {
		t.Errorf("unexpected body prefix: %.40s", rec.Body.String())
	}
}
