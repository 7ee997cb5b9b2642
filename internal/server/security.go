package server

import (
	"net/http"
	"strings"

	"github.com/agbru/alusim/internal/seq"
)

// SecurityConfig controls the hardening middleware: response headers,
// CORS policy and the operand width limit of the compute API.
type SecurityConfig struct {
	// EnableCORS turns on cross-origin resource sharing headers.
	EnableCORS bool
	// AllowedOrigins lists origins allowed to call the API; "*" allows any.
	AllowedOrigins []string
	// AllowedMethods lists the HTTP methods advertised to browsers.
	AllowedMethods []string
	// MaxWidth caps the operand width a compute request may ask for.
	MaxWidth int
}

// DefaultSecurityConfig returns the standard configuration: CORS open to
// any origin and the operand width capped at the machine limit.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		MaxWidth:       seq.MaxWidth,
	}
}

// SecurityMiddleware wraps next with security response headers and CORS
// handling. OPTIONS preflight requests are answered directly with 204
// and never reach next.
func SecurityMiddleware(config SecurityConfig, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// Sent on every response, error paths included.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// allowedOrigin resolves the Access-Control-Allow-Origin value for a
// request origin, or "" when the origin is not allowed. The wildcard
// matches every request, Origin header or not.
func allowedOrigin(allowed []string, origin string) string {
	for _, a := range allowed {
		if a == "*" {
			return "*"
		}
		if origin != "" && a == origin {
			return a
		}
	}
	return ""
}
