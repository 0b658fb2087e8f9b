// package server contains the router, middleware & handlers for the dashboard web service
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
	"github.com/desertthunder/songdash/internal/web"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the dashboard service.
// Implementations serve one or more related endpoints (pages, JSON API, assets).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the [http.ServeMux] patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Dashboard is the render engine behind the handlers. Implemented by [dashboard.Dashboard].
type Dashboard interface {
	dashboard.Engine
	Render(ctx context.Context, page dashboard.Page, c *songs.Criteria) (any, error)
	Report(ctx context.Context) (*dashboard.Report, error)
}

// Server serves the dashboard over HTTP.
type Server struct {
	router *BasicRouter
	http   *http.Server
	logger *log.Logger
}

// New wires handlers and middleware into a Server listening on cfg's address.
func New(cfg *shared.Config, d Dashboard, loaded func() bool, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = shared.WithLogger(logger, "component", "server")

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	router := NewBasicRouter()
	router.Use(
		Recoverer(logger),
		RequestID(),
		RequestLogger(logger),
		RateLimit(cfg.Server.RateLimit, cfg.Server.Burst),
	)

	audio := NewAudioHandler(cfg.Audio)
	router.Handler(NewPageHandler(d, renderer, audio, logger))
	router.Handler(NewAPIHandler(d, logger))
	router.Handler(NewReportHandler(d, renderer, audio, logger))
	router.Handler(audio)
	router.Handle(http.MethodGet, "/healthz", HealthHandler(loaded))

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Handler returns the root handler, for use with httptest.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("dashboard listening", "addr", "http://"+s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down dashboard")
	return s.http.Shutdown(ctx)
}
