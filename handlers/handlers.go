package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/status-im/proxy-gatekeeper/config"
)

// Identity is the body served on the root path
const Identity = "gatekeeper"

// Backend is what the handlers need from the application facade
type Backend interface {
	Validate() error
	RedactedConfig() *config.Config
}

type Handlers struct {
	backend Backend
	logger  *slog.Logger
}

type Option func(*Handlers)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) {
		h.logger = logger
	}
}

func New(backend Backend, opts ...Option) *Handlers {
	h := &Handlers{
		backend: backend,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

// ReadyHandler re-validates the configuration before reporting ready
func (h *Handlers) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Validate(); err != nil {
		h.logger.Warn("readiness check failed", "error", err)
		writeText(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeText(w, http.StatusOK, "ok")
}

func (h *Handlers) IdentityHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, Identity)
}

// ConfigHandler serves the configuration with key values masked
func (h *Handlers) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.backend.RedactedConfig()); err != nil {
		h.logger.Error("failed to encode config response", "error", err)
	}
}

// ProxyHandler accepts versioned API traffic. Key selection and the
// upstream call are not wired yet, so every request gets a plain 200.
func (h *Handlers) ProxyHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

// LogRequests logs the method and path of every request before serving it
func LogRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
