// Package api provides the HTTP export API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ezexport/internal/config"
	"ezexport/internal/exporter"
	"ezexport/internal/logger"
	"ezexport/internal/models"
	"ezexport/internal/validator"
)

const shutdownTimeout = 10 * time.Second

// Exporter is the export service the handlers call.
type Exporter interface {
	ListURLs(ctx context.Context, category models.Category, org string, debug bool) (*exporter.URLListing, error)
	Content(ctx context.Context, urls []string) ([]models.PageEnvelope, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	exporter  Exporter
	validator *validator.Validator
	router    *chi.Mux
	logger    *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(exp Exporter, v *validator.Validator, log *logger.Logger) *Server {
	if v == nil {
		v = validator.New()
	}

	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		exporter:  exp,
		validator: v,
		router:    chi.NewRouter(),
		logger:    log,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/export", func(r chi.Router) {
		r.Get("/urls", s.handleTypeMissing)
		r.Get("/urls/", s.handleTypeMissing)
		r.Get("/urls/{type}", s.handleListURLs)
		r.Post("/content", s.handleContent)
	})

	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleNotFound)
}

// Run serves on the configured port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	read, write, idle := cfg.Timeouts()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           s,
		ReadTimeout:       read,
		ReadHeaderTimeout: read,
		WriteTimeout:      write,
		IdleTimeout:       idle,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("export API listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down export API")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// requestLogger logs every request through the service logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
