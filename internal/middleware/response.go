package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/restdemo/userapi/internal/handler/dto"
)

// writeEnvelope writes a failure envelope for responses produced before a
// handler runs.
func writeEnvelope(w http.ResponseWriter, status int, message, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.Failure(message, errMsg))
}
