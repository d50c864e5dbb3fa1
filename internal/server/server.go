// Package server exposes the scheduler's metrics and storage health over
// HTTP while an interactive session is open.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/ganttline/internal/health"
	"github.com/felixgeelhaar/ganttline/internal/log"
	"github.com/felixgeelhaar/ganttline/internal/metrics"
)

// Server serves /metrics and /healthz.
type Server struct {
	httpServer      *http.Server
	health          *health.Manager
	log             *log.Logger
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address, e.g. ":9464".
	Address string

	// ShutdownTimeout bounds connection draining. Defaults to 2 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout defaults to 5 seconds.
	ReadHeaderTimeout time.Duration
}

// New creates a server publishing reg and the checks registered on checks.
func New(cfg Config, reg *prometheus.Registry, checks *health.Manager, logger *log.Logger) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 2 * time.Second
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = 5 * time.Second
	}
	logger = log.OrDefault(logger)

	s := &Server{
		health:          checks,
		log:             logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.HandlerFor(reg))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	return s
}

// Handler returns the request router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address and serves in the background.
// Listen errors are returned; errors after that are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.Info("serving metrics", "addr", ln.Addr().String())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.LogError("metrics server stopped", err)
		}
	}()
	return nil
}

// Shutdown stops accepting requests and drains open connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.httpServer.SetKeepAlivesEnabled(false)
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// handleHealth answers 200 unless a check is unhealthy, then 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Run(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if report.Healthy() {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.log.LogError("encode health report", err)
	}
}
