package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/status-im/proxy-gatekeeper/app"
	"github.com/status-im/proxy-gatekeeper/handlers"
)

// APIPrefix is the catch-all prefix for versioned API traffic
const APIPrefix = "/v1/"

type Server struct {
	app           *app.App
	handlers      *handlers.Handlers
	mux           *http.ServeMux
	logger        *slog.Logger
	enableMetrics bool
	metricsPath   string
}

type Option func(*Server)

func WithApp(a *app.App) Option {
	return func(s *Server) {
		s.app = a
	}
}

func WithMetrics(enable bool) Option {
	return func(s *Server) {
		s.enableMetrics = enable
	}
}

func WithMetricsPath(path string) Option {
	return func(s *Server) {
		s.metricsPath = path
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(opts ...Option) (*Server, error) {
	s := &Server{
		logger:        slog.Default(),
		enableMetrics: true,
		metricsPath:   "/metrics",
	}

	for _, opt := range opts {
		opt(s)
	}

	// If no app was provided, build one from the environment
	if s.app == nil {
		a, err := app.Build(app.WithLogger(s.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to build app: %w", err)
		}
		s.app = a
	}

	s.handlers = handlers.New(s.app, handlers.WithLogger(s.logger))
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux = http.NewServeMux()

	s.mux.HandleFunc("GET /healthz", s.handlers.HealthHandler)
	s.mux.HandleFunc("GET /readyz", s.handlers.ReadyHandler)
	s.mux.HandleFunc("GET /config", s.handlers.ConfigHandler)
	s.mux.HandleFunc("GET /{$}", s.handlers.IdentityHandler)
	s.mux.HandleFunc(APIPrefix, s.handlers.ProxyHandler)

	if s.enableMetrics {
		s.mux.Handle("GET "+s.metricsPath, promhttp.Handler())
	}
}

// Handler returns the http.Handler for the server, with request logging
func (s *Server) Handler() http.Handler {
	return handlers.LogRequests(s.logger, s.mux)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

// HTTPServer returns an http.Server serving this server on addr
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
