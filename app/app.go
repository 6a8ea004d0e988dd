// Package app composes configuration loading and key selection into the
// single object the HTTP edge holds for the lifetime of the process.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/status-im/proxy-gatekeeper/balancer"
	"github.com/status-im/proxy-gatekeeper/config"
	"github.com/status-im/proxy-gatekeeper/dispatch"
	"github.com/status-im/proxy-gatekeeper/errs"
	"github.com/status-im/proxy-gatekeeper/metrics"
	"github.com/status-im/proxy-gatekeeper/ratelimit"
	"github.com/status-im/proxy-gatekeeper/scheduler"
)

const defaultStatsInterval = 15 * time.Second

type App struct {
	config   *config.Config
	lb       *balancer.LoadBalancer
	limiters *ratelimit.RateLimiterManager
	stats    *scheduler.Scheduler

	source        config.Source
	metrics       metrics.MetricsRecorder
	logger        *slog.Logger
	statsInterval time.Duration
}

type Option func(*App)

// WithSource makes Build read key/value configuration from source
// instead of the process environment
func WithSource(source config.Source) Option {
	return func(a *App) {
		a.source = source
	}
}

func WithMetrics(m metrics.MetricsRecorder) Option {
	return func(a *App) {
		a.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithStatsInterval sets how often per-key counters are published to metrics
func WithStatsInterval(d time.Duration) Option {
	return func(a *App) {
		a.statsInterval = d
	}
}

func newApp(opts []Option) *App {
	a := &App{
		metrics:       metrics.NewNoopMetrics(),
		logger:        slog.Default(),
		statsInterval: defaultStatsInterval,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Build loads configuration and binds a load balancer to it.
// Configuration errors are returned unchanged.
func Build(opts ...Option) (*App, error) {
	a := newApp(opts)

	var (
		cfg *config.Config
		err error
	)
	if a.source != nil {
		cfg, err = config.LoadFromSource(a.source)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		a.metrics.RecordConfigLoad("invalid")
		return nil, err
	}
	a.metrics.RecordConfigLoad("success")

	a.init(cfg)
	return a, nil
}

// New binds a load balancer to an already loaded configuration
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := newApp(opts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a.init(cfg)
	return a, nil
}

func (a *App) init(cfg *config.Config) {
	a.config = cfg
	a.lb = balancer.New(cfg.LbPolicy, cfg.Keys, balancer.WithMetrics(a.metrics))
	a.limiters = ratelimit.NewRateLimiterManager(cfg.RateLimit, cfg.ProviderRateLimits)
	a.stats = scheduler.New(a.statsInterval, a.publishStats, scheduler.WithImmediateRun())

	if dups := cfg.DuplicateKeyIDs(); len(dups) > 0 {
		a.logger.Warn("duplicate key ids configured", "ids", dups)
	}

	a.logger.Info("key pool ready",
		"keys", a.lb.Len(),
		"policy", cfg.LbPolicy.String(),
		"max_retries", cfg.Retry.MaxRetries)
}

// Config returns the live configuration. Callers must not modify it;
// use RedactedConfig for anything that is logged or displayed.
func (a *App) Config() *config.Config {
	return a.config
}

// RedactedConfig returns a copy of the configuration with secrets masked
func (a *App) RedactedConfig() *config.Config {
	return a.config.Redacted()
}

func (a *App) Balancer() *balancer.LoadBalancer {
	return a.lb
}

// Validate re-checks the configuration and that the pool can serve requests
func (a *App) Validate() error {
	if err := a.config.Validate(); err != nil {
		return err
	}
	if a.lb.IsEmpty() {
		return errs.ErrNoAvailableKeys
	}
	return nil
}

// NewDispatcher returns a dispatcher that retries over this app's balancer
// using the configured retry and rate limit settings
func (a *App) NewDispatcher(opts ...dispatch.Option) *dispatch.Dispatcher {
	base := []dispatch.Option{
		dispatch.WithRateLimiter(a.limiters),
		dispatch.WithMetrics(a.metrics),
		dispatch.WithLogger(a.logger),
	}
	return dispatch.New(a.lb, a.config.Retry, append(base, opts...)...)
}

// Start publishes per-key counters to metrics until Close or ctx is done
func (a *App) Start(ctx context.Context) {
	a.stats.Start(ctx)
}

func (a *App) Close() {
	a.stats.Stop()
}

func (a *App) publishStats(context.Context) {
	for _, s := range a.lb.Snapshot() {
		a.metrics.UpdateKeyState(s.ID, s.Provider, s.InFlight, s.FailCount)
	}
}
