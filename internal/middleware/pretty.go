package middleware

import (
	"context"
	"net/http"
)

// PrettyQueryParam toggles indented JSON output when present in the query.
const PrettyQueryParam = "pretty"

const prettyKey contextKey = "pretty_json"

// PrettyJSON marks requests carrying ?pretty so handlers indent their JSON.
// When disabled the middleware is a pass-through.
func PrettyJSON(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Has(PrettyQueryParam) {
				r = r.WithContext(context.WithValue(r.Context(), prettyKey, true))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsPretty reports whether the request asked for indented JSON.
func IsPretty(ctx context.Context) bool {
	pretty, _ := ctx.Value(prettyKey).(bool)
	return pretty
}
