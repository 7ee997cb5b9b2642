package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// scrape fetches the Prometheus exposition through the handler under test.
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, req)
	return rec.Body.String()
}

func TestMetrics_Exposition(t *testing.T) {
	m := NewMetrics()
	if m == nil || m.handler == nil {
		t.Fatal("NewMetrics should return a wired exposition handler")
	}

	// The collectors are package globals on the default registry, so
	// counts accumulate across tests. Assert presence, never values.
	m.IncrementActiveRequests()
	m.RecordRequest("/api/v1/compute", 3*time.Millisecond)
	m.DecrementActiveRequests()

	body := scrape(t, m)

	for _, family := range []string{
		"alusim_active_requests",
		"alusim_requests_total",
		"alusim_request_duration_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(body, family) {
			t.Errorf("exposition is missing the %s family", family)
		}
	}
	if !strings.Contains(body, `path="/api/v1/compute"`) {
		t.Error("duration histogram should be labeled with the request path")
	}
}

func TestServer_metricsMiddleware(t *testing.T) {
	s := newTestServer()

	status := 0
	handler := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		status = http.StatusTeapot
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if status != http.StatusTeapot {
		t.Fatal("middleware should invoke the wrapped handler")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("middleware altered the status to %d", rec.Code)
	}
	if !strings.Contains(scrape(t, s.metrics), `path="/healthz"`) {
		t.Error("middleware should record the request under its path label")
	}
}

func TestServer_handleMetrics(t *testing.T) {
	s := newTestServer()

	t.Run("GET serves the exposition", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleMetrics(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "alusim_") {
			t.Error("exposition should carry the alusim families")
		}
	})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method+" is rejected", func(t *testing.T) {
			req := httptest.NewRequest(method, "/metrics", http.NoBody)
			rec := httptest.NewRecorder()

			s.handleMetrics(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}
