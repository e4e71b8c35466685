// Package middleware provides HTTP middleware for the user API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// AnyOrigin allows every origin when present in CORSConfig.AllowedOrigins.
const AnyOrigin = "*"

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins lists exact origins, "*.example.com" subdomain patterns,
	// or AnyOrigin.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials.
	// Combined with AnyOrigin the request origin is echoed back instead of "*".
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the header.
	MaxAge int
}

// DefaultCORSConfig returns the defaults used by the API.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{AnyOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},

		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// corsPolicy is CORSConfig with the header values joined once.
type corsPolicy struct {
	any         bool
	exact       map[string]bool
	suffixes    []string
	credentials bool

	methods string
	headers string
	exposed string
	maxAge  string
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		exact:       make(map[string]bool, len(cfg.AllowedOrigins)),
		credentials: cfg.AllowCredentials,
		methods:     strings.Join(cfg.AllowedMethods, ", "),
		headers:     strings.Join(cfg.AllowedHeaders, ", "),
		exposed:     strings.Join(cfg.ExposedHeaders, ", "),
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}

	for _, origin := range cfg.AllowedOrigins {
		origin = strings.ToLower(strings.TrimSpace(origin))
		switch {
		case origin == AnyOrigin:
			p.any = true
		case strings.HasPrefix(origin, "*."):
			p.suffixes = append(p.suffixes, origin[1:])
		case origin != "":
			p.exact[origin] = true
		}
	}
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin.
func (p *corsPolicy) allowOrigin(origin string) (string, bool) {
	if p.any {
		if p.credentials {
			return origin, true
		}
		return AnyOrigin, true
	}

	normalized := strings.ToLower(origin)
	if p.exact[normalized] {
		return origin, true
	}

	_, host, ok := strings.Cut(normalized, "://")
	if !ok {
		return "", false
	}
	for _, suffix := range p.suffixes {
		// "*.example.com" matches "app.example.com" but not "notexample.com".
		if strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			return origin, true
		}
	}
	return "", false
}

// CORS handles cross-origin requests and answers preflight OPTIONS itself.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	p := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, ok := p.allowOrigin(origin)
			if !ok {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != AnyOrigin {
				h.Add("Vary", "Origin")
			}
			if p.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if p.exposed != "" {
				h.Set("Access-Control-Expose-Headers", p.exposed)
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Methods", p.methods)
			h.Set("Access-Control-Allow-Headers", p.headers)
			if p.maxAge != "" {
				h.Set("Access-Control-Max-Age", p.maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
