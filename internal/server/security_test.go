package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agbru/alusim/internal/seq"
)

// securityProbe runs one request through the middleware and reports
// whether the wrapped handler was reached.
func securityProbe(t *testing.T, cfg SecurityConfig, method, origin string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	handler := SecurityMiddleware(cfg, func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})
	req := httptest.NewRequest(method, "/api/v1/compute", http.NoBody)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec, reached
}

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	if !cfg.EnableCORS {
		t.Error("CORS should be enabled by default")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want the wildcard only", cfg.AllowedOrigins)
	}
	if got := strings.Join(cfg.AllowedMethods, ","); got != "GET,POST,OPTIONS" {
		t.Errorf("AllowedMethods = %q, want GET, POST and OPTIONS", got)
	}
	if cfg.MaxWidth != seq.MaxWidth {
		t.Errorf("MaxWidth = %d, want the machine limit %d", cfg.MaxWidth, seq.MaxWidth)
	}
}

func TestSecurityMiddleware_HardeningHeaders(t *testing.T) {
	rec, reached := securityProbe(t, DefaultSecurityConfig(), http.MethodGet, "")

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"X-XSS-Protection":        "1; mode=block",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
	if !reached {
		t.Error("GET request should reach the compute handler")
	}
}

// Hardening headers are unconditional; a preflight answer carries them too.
func TestSecurityMiddleware_HeadersOnPreflight(t *testing.T) {
	rec, _ := securityProbe(t, DefaultSecurityConfig(), http.MethodOptions, "https://panel.alusim.dev")

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("preflight response is missing the hardening headers")
	}
}

func TestSecurityMiddleware_CORSPolicy(t *testing.T) {
	tests := []struct {
		name      string
		cors      bool
		allowed   []string
		origin    string
		wantAllow string
	}{
		{
			name:    "disabled emits nothing",
			cors:    false,
			allowed: []string{"*"},
			origin:  "https://panel.alusim.dev",
		},
		{
			name:      "wildcard admits any origin",
			cors:      true,
			allowed:   []string{"*"},
			origin:    "https://panel.alusim.dev",
			wantAllow: "*",
		},
		{
			name:      "wildcard answers even without an Origin header",
			cors:      true,
			allowed:   []string{"*"},
			wantAllow: "*",
		},
		{
			name:      "listed origin is echoed back",
			cors:      true,
			allowed:   []string{"https://panel.alusim.dev"},
			origin:    "https://panel.alusim.dev",
			wantAllow: "https://panel.alusim.dev",
		},
		{
			name:    "unlisted origin is refused",
			cors:    true,
			allowed: []string{"https://panel.alusim.dev"},
			origin:  "https://rogue.example.net",
		},
		{
			name:      "later entry in the allow list still matches",
			cors:      true,
			allowed:   []string{"https://panel.alusim.dev", "https://lab.alusim.dev"},
			origin:    "https://lab.alusim.dev",
			wantAllow: "https://lab.alusim.dev",
		},
		{
			name:    "explicit allow list needs an Origin header",
			cors:    true,
			allowed: []string{"https://panel.alusim.dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SecurityConfig{
				EnableCORS:     tt.cors,
				AllowedOrigins: tt.allowed,
				AllowedMethods: []string{"GET", "POST"},
			}
			rec, _ := securityProbe(t, cfg, http.MethodGet, tt.origin)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if got != tt.wantAllow {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if tt.wantAllow == "" {
				return
			}
			if methods := rec.Header().Get("Access-Control-Allow-Methods"); methods != "GET, POST" {
				t.Errorf("Access-Control-Allow-Methods = %q, want %q", methods, "GET, POST")
			}
			if rec.Header().Get("Access-Control-Allow-Headers") != "Content-Type" {
				t.Error("Access-Control-Allow-Headers should advertise Content-Type")
			}
			if rec.Header().Get("Access-Control-Max-Age") != "86400" {
				t.Error("Access-Control-Max-Age should cache the preflight for a day")
			}
		})
	}
}

func TestSecurityMiddleware_Preflight(t *testing.T) {
	rec, reached := securityProbe(t, DefaultSecurityConfig(), http.MethodOptions, "https://panel.alusim.dev")

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if reached {
		t.Error("preflight must be answered by the middleware, not the compute handler")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("preflight answer is missing the CORS grant")
	}
}

func TestSecurityMiddleware_PassesMethodsThrough(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec, reached := securityProbe(t, DefaultSecurityConfig(), method, "")
			if !reached {
				t.Fatalf("%s request should reach the next handler", method)
			}
			if rec.Header().Get("X-Frame-Options") != "DENY" {
				t.Errorf("%s response is missing the hardening headers", method)
			}
		})
	}
}

func TestSecurityMiddleware_ResponseBodyIntact(t *testing.T) {
	const body = `{"low":"0x10"}`
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compute", http.NoBody)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != body {
		t.Errorf("body = %q, want %q", rec.Body.String(), body)
	}
}

func TestAllowedOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"wildcard wins regardless of origin", []string{"*"}, "", "*"},
		{"wildcard shadows later exact entries", []string{"*", "https://panel.alusim.dev"}, "https://panel.alusim.dev", "*"},
		{"exact match echoes the origin", []string{"https://panel.alusim.dev"}, "https://panel.alusim.dev", "https://panel.alusim.dev"},
		{"no match yields empty", []string{"https://panel.alusim.dev"}, "https://rogue.example.net", ""},
		{"empty origin never matches an exact entry", []string{"https://panel.alusim.dev"}, "", ""},
		{"empty allow list yields empty", nil, "https://panel.alusim.dev", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allowedOrigin(tt.allowed, tt.origin); got != tt.want {
				t.Errorf("allowedOrigin(%v, %q) = %q, want %q", tt.allowed, tt.origin, got, tt.want)
			}
		})
	}
}
