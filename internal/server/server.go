package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sundayezeilo/brandcatalog/internal/config"
	"github.com/sundayezeilo/brandcatalog/internal/httpx"
	"github.com/sundayezeilo/brandcatalog/internal/telemetry"
)

// Handlers are the endpoint handlers mounted by the server.
type Handlers struct {
	Redeploy http.Handler     // POST-only; answers other methods itself
	Commit   http.Handler     // POST-only; answers other methods itself
	Changes  http.HandlerFunc // GET change history
}

// Server represents the HTTP server with all dependencies.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	handlers Handlers
	server   *http.Server
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger, handlers Handlers) *Server {
	if handlers.Changes == nil {
		handlers.Changes = http.NotFound
	}
	return &Server{
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.applyMiddleware(s.setupRoutes())
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	// Listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting http server",
			"addr", s.server.Addr,
			"env", s.config.App.Environment,
		)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.gracefulStop()

	case <-ctx.Done():
		s.logger.Info("context cancelled, stopping server")
		return s.gracefulStop()
	}
}

func (s *Server) gracefulStop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		// Force close if graceful shutdown fails
		if closeErr := s.server.Close(); closeErr != nil {
			return fmt.Errorf("failed to close server: %w", closeErr)
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}

// setupRoutes configures all HTTP routes. The catalog endpoints are
// registered without a method so that their handlers answer every other
// method, OPTIONS included, with the plain-text 405 callers expect.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /x/health", s.healthCheckHandler)

	mux.Handle("/api/catalog/redeploy", s.handlers.Redeploy)
	mux.Handle("/api/catalog/commit", s.handlers.Commit)
	mux.HandleFunc("GET /api/catalog/changes", s.handlers.Changes)
	mux.HandleFunc("OPTIONS /api/catalog/changes", preflightHandler)

	// Function paths of the previous deployment.
	mux.Handle("/.netlify/functions/editcatalog", s.handlers.Redeploy)
	mux.Handle("/.netlify/functions/update_json", s.handlers.Commit)

	return mux
}

// applyMiddleware wraps the handler with middleware in the correct order.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	h := httpx.Chain(
		httpx.Recovery(s.logger), // Outermost: catch panics
		httpx.RequestID,          // Add request ID
		httpx.Logger(s.logger),   // Log requests
		httpx.CORSHeaders(nil),   // CORS headers (allow all)
	)(handler)

	if s.config.Observability.Enabled {
		h = telemetry.Handler(h, s.config.Observability.ServiceName)
	}
	return h
}

// healthCheckHandler handles health check requests.
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.Observability.ServiceName,
		"version": s.config.Observability.ServiceVersion,
	})
}

// preflightHandler answers CORS preflight; the headers are set by middleware.
func preflightHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("shutdown timeout exceeded, forcing close")
			return s.server.Close()
		}
		return err
	}

	return nil
}
