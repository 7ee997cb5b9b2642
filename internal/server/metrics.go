package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP collectors are registered on the default registry at package load.
// promauto panics on duplicate registration, so they live here rather than
// per Metrics instance.
var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alusim_active_requests",
		Help: "Number of HTTP requests currently being served.",
	})

	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alusim_requests_total",
		Help: "Total number of HTTP requests served.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alusim_request_duration_seconds",
		Help:    "HTTP request latency by path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
)

// Metrics exposes the Prometheus instrumentation of the HTTP server.
type Metrics struct {
	handler http.Handler
}

// NewMetrics returns a Metrics backed by the default Prometheus registry,
// so the exposition includes Go runtime metrics alongside the server's own.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// IncrementActiveRequests increments the in-flight request gauge.
func (m *Metrics) IncrementActiveRequests() {
	activeRequests.Inc()
}

// DecrementActiveRequests decrements the in-flight request gauge.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}

// RecordRequest counts one served request and its latency.
func (m *Metrics) RecordRequest(path string, duration time.Duration) {
	requestsTotal.Inc()
	requestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// WritePrometheus writes the metrics exposition to the response.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// metricsMiddleware tracks the in-flight gauge and request counters
// around next. The decrement is deferred so panics further down the
// chain cannot leak gauge increments.
func (s *Server) metricsMiddleware(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		start := time.Now()
		defer func() {
			s.metrics.DecrementActiveRequests()
			s.metrics.RecordRequest(r.URL.Path, time.Since(start))
		}()

		next(w, r)
	}
}
