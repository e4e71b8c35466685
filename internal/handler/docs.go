package handler

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/restdemo/userapi/internal/apidoc"
	"github.com/restdemo/userapi/internal/handler/dto"
)

// DocsHandler serves the API description.
type DocsHandler struct {
	summary apidoc.Summary
	raw     []byte
}

// NewDocsHandler builds the endpoint summary once from doc.
// A non-empty version overrides the document's own.
func NewDocsHandler(doc *openapi3.T, version string) *DocsHandler {
	summary := apidoc.Summarize(doc)
	if version != "" {
		summary.Version = version
	}
	return &DocsHandler{
		summary: summary,
		raw:     apidoc.Raw(),
	}
}

// Docs lists every documented endpoint.
// GET /api/docs
func (h *DocsHandler) Docs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.Success("API Documentation", h.summary))
}

// OpenAPI returns the raw OpenAPI document.
// GET /api/openapi.yaml
func (h *DocsHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.raw)
}
