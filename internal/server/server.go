// Package server exposes the read-only status API: health, run status, and
// recently processed tick records.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/tickbot/internal/domain"
	"github.com/alanyoungcy/tickbot/internal/server/handler"
	"github.com/alanyoungcy/tickbot/internal/server/middleware"
)

// Config holds the HTTP server settings.
type Config struct {
	Port   int
	APIKey string
}

// Server is the status API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds the server with all routes and middleware wired.
func New(cfg Config, status handler.StatusProvider, cache domain.RecordCache, logger *slog.Logger) *Server {
	log := logger.With(slog.String("component", "server"))

	healthHandler := handler.NewHealth()
	statusHandler := handler.NewStatus(status)
	ticksHandler := handler.NewTicks(cache)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", healthHandler.Handle)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/status", statusHandler.Handle)
	protected.HandleFunc("GET /api/ticks/recent", ticksHandler.HandleRecent)
	protected.HandleFunc("GET /api/ticks/latest", ticksHandler.HandleLatest)
	mux.Handle("/api/", middleware.Auth(cfg.APIKey)(protected))

	root := middleware.Logging(log)(mux)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      root,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}

// Shutdown drains in-flight requests with a bounded grace period.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
