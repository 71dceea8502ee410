// Package keepalive runs the liveness HTTP server. Free hosting tiers
// suspend services without inbound traffic; uptime monitors probing GET /
// keep the bot awake, and GET /health reports subsystem state for them.
package keepalive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// AliveBody is the exact response body uptime monitors match on.
const AliveBody = "Bot is alive!"

const shutdownTimeout = 30 * time.Second

// CheckFunc reports the state of one subsystem. A nil error means healthy.
// Must be safe for concurrent use.
type CheckFunc func(ctx context.Context) error

// Server is the liveness HTTP server.
type Server struct {
	addr   string
	logger *slog.Logger

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewServer creates a liveness server bound to addr.
func NewServer(addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		addr:   addr,
		logger: logger.With("component", "keepalive"),
		checks: make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named health check reported by GET /health.
// Registering the same name twice panics.
func (s *Server) RegisterCheck(name string, check CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.checks[name]; dup {
		panic(fmt.Sprintf("keepalive: duplicate health check %q", name))
	}
	s.checks[name] = check
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Run serves until the context is canceled, then shuts down gracefully,
// letting in-flight probes finish.
func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	defer l.Close()
	s.logger.Info("Keepalive server listening", "addr", l.Addr().String())

	srv := &http.Server{Handler: s.routes()}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("keepalive server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down keepalive server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("keepalive server shutdown failed: %w", err)
		}
	}

	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, AliveBody); err != nil {
		s.logger.Warn("Failed to write liveness response", "error", err)
	}
}

// healthResponse is the /health body: overall status plus per-check results.
// Monitors match on the "status" field.
type healthResponse struct {
	Status string            `json:"status"`
	Bot    string            `json:"bot"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checks := make(map[string]CheckFunc, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
	}
	s.mu.RUnlock()

	resp := healthResponse{
		Status: "healthy",
		Bot:    "running",
		Checks: make(map[string]string, len(checks)),
	}

	for name, check := range checks {
		if err := check(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Checks[name] = err.Error()
			s.logger.Warn("Health check failed", "check", name, "error", err)
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("Failed to write health response", "error", err)
	}
}
