// Package server exposes ALU operations over HTTP: a JSON compute API,
// a liveness endpoint and a Prometheus metrics exposition. Every route
// runs behind the security and metrics middleware chain.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/alusim/internal/bitvec"
	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/engine"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/logging"
	"github.com/agbru/alusim/internal/metrics"
	"github.com/agbru/alusim/internal/seq"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8463"

	// computeTimeout bounds a single compute request.
	computeTimeout = 30 * time.Second

	// maxBodyBytes caps the compute request body size.
	maxBodyBytes = 1 << 20

	// tracerName identifies this package's spans.
	tracerName = "alusim/server"
)

// Server serves the compute API together with health and metrics
// endpoints.
type Server struct {
	addr     string
	registry *engine.Registry
	metrics  *Metrics
	logger   logging.Logger
	security SecurityConfig
}

// Option configures a Server at construction.
type Option func(*Server)

// WithSecurityConfig overrides the default security configuration.
func WithSecurityConfig(config SecurityConfig) Option {
	return func(s *Server) { s.security = config }
}

// New constructs a server on addr backed by the given engine registry.
// An empty addr falls back to DefaultAddr, a nil logger to the no-op one.
func New(addr string, registry *engine.Registry, logger logging.Logger, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	s := &Server{
		addr:     addr,
		registry: registry,
		metrics:  NewMetrics(),
		logger:   logger,
		security: DefaultSecurityConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler assembles the route table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/compute", s.wrap(s.handleCompute))
	mux.HandleFunc("/healthz", s.wrap(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	return mux
}

// wrap applies the standard middleware chain to a handler. Security runs
// outermost so preflight requests never reach the request counters.
func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// Run serves until ctx is canceled, then drains in-flight connections
// before returning.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", s.addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	}
}

// ComputeRequest is the JSON body of POST /api/v1/compute. Operand
// literals accept the same bases as the command line: decimal, 0b, 0o
// and 0x. For shift opcodes b carries the shift amount, with dir and
// fill selecting the direction and the shifted-in bit.
type ComputeRequest struct {
	Opcode string `json:"opcode"`
	Width  int    `json:"width"`
	A      string `json:"a"`
	B      string `json:"b,omitempty"`
	Dir    string `json:"dir,omitempty"`
	Fill   bool   `json:"fill,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// ComputeResponse carries the output bus of a completed operation. Low
// and High are decimal strings so arbitrary widths survive JSON intact.
type ComputeResponse struct {
	Opcode     string  `json:"opcode"`
	Width      int     `json:"width"`
	Engine     string  `json:"engine"`
	Low        string  `json:"low"`
	High       string  `json:"high"`
	LowHex     string  `json:"low_hex"`
	HighHex    string  `json:"high_hex"`
	Flag       bool    `json:"flag"`
	Ticks      uint64  `json:"ticks"`
	DurationMs float64 `json:"duration_ms"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// handleCompute runs one ALU operation described by the JSON body and
// returns the output bus.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
		return
	}

	var req ComputeRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	engReq, err := s.buildRequest(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engName := req.Engine
	if engName == "" {
		engName = s.registry.Default().Name()
	}
	eng, err := s.registry.Get(engName)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), computeTimeout)
	defer cancel()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "server.compute")
	span.SetAttributes(
		attribute.String("opcode", engReq.Opcode.String()),
		attribute.Int("width", engReq.Width),
		attribute.String("engine", eng.Name()),
	)
	defer span.End()

	start := time.Now()
	result, err := eng.Execute(ctx, engReq, nil)
	duration := time.Since(start)
	if err != nil {
		s.logger.Error("compute failed", err,
			logging.String("opcode", engReq.Opcode.String()),
			logging.Int("width", engReq.Width),
			logging.String("engine", eng.Name()))
		s.writeError(w, computeErrorStatus(err), err.Error())
		return
	}

	metrics.ObserveOperation(engReq.Opcode.String(), result.Ticks)

	s.logger.Info("compute served",
		logging.String("opcode", engReq.Opcode.String()),
		logging.Int("width", engReq.Width),
		logging.String("engine", eng.Name()),
		logging.Uint64("ticks", result.Ticks))

	s.writeJSON(w, http.StatusOK, ComputeResponse{
		Opcode:     result.Opcode.String(),
		Width:      result.Width,
		Engine:     eng.Name(),
		Low:        result.Low.Big().String(),
		High:       result.High.Big().String(),
		LowHex:     "0x" + result.Low.Hex(),
		HighHex:    "0x" + result.High.Hex(),
		Flag:       result.Flag,
		Ticks:      result.Ticks,
		DurationMs: float64(duration.Microseconds()) / 1000,
	})
}

// computeErrorStatus maps an engine error to an HTTP status code.
func computeErrorStatus(err error) int {
	var vErr apperrors.ValidationError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// buildRequest converts the JSON payload into an engine request. The
// width is range-checked before any operand parsing so malformed
// payloads fail fast.
func (s *Server) buildRequest(req ComputeRequest) (engine.Request, error) {
	op, err := comb.ParseOpcode(strings.ToLower(strings.TrimSpace(req.Opcode)))
	if err != nil {
		return engine.Request{}, err
	}
	if req.Width < seq.MinWidth || req.Width > seq.MaxWidth {
		return engine.Request{}, fmt.Errorf("width %d out of range [%d, %d]", req.Width, seq.MinWidth, seq.MaxWidth)
	}
	if s.security.MaxWidth > 0 && req.Width > s.security.MaxWidth {
		return engine.Request{}, fmt.Errorf("width %d above the configured server limit %d", req.Width, s.security.MaxWidth)
	}

	a, err := bitvec.Parse(req.Width, req.A)
	if err != nil {
		return engine.Request{}, fmt.Errorf("operand a: %v", err)
	}

	var b bitvec.Vector
	switch {
	case op.IsShift():
		amount, err := strconv.ParseInt(strings.TrimSpace(req.B), 0, 32)
		if err != nil || amount < 0 {
			return engine.Request{}, fmt.Errorf("shift amount %q must be a non-negative integer", req.B)
		}
		spec := comb.ShiftSpec{Amount: int(amount), Fill: req.Fill}
		switch strings.ToLower(req.Dir) {
		case "", "l", "left":
			spec.Dir = comb.DirLeft
		case "r", "right":
			spec.Dir = comb.DirRight
		default:
			return engine.Request{}, fmt.Errorf("shift direction %q must be left or right", req.Dir)
		}
		if op == comb.OpShiftArithmetic {
			spec.Mode = comb.ModeArithmetic
		}
		b = comb.PackShiftSpec(req.Width, spec)
	case req.B == "" && (op == comb.OpNot || op == comb.OpNoOp):
		// Unary operations default operand b to zero.
		b = bitvec.New(req.Width)
	default:
		if b, err = bitvec.Parse(req.Width, req.B); err != nil {
			return engine.Request{}, fmt.Errorf("operand b: %v", err)
		}
	}

	return engine.Request{Opcode: op, Width: req.Width, A: a, B: b}, nil
}

// handleHealth answers liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed, use GET")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics serves the Prometheus exposition. Only GET is accepted.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		if s.logger != nil {
			s.logger.Warn("metrics endpoint called with wrong method", logging.String("method", r.Method))
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("response encoding failed", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
