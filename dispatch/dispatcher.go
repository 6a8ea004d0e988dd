package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/status-im/proxy-gatekeeper/config"
	"github.com/status-im/proxy-gatekeeper/errs"
	"github.com/status-im/proxy-gatekeeper/keypool"
	"github.com/status-im/proxy-gatekeeper/metrics"
	"github.com/status-im/proxy-gatekeeper/ratelimit"
)

// Executor performs one upstream call with the given key
type Executor func(ctx context.Context, key *keypool.Key) error

// Balancer is the part of balancer.LoadBalancer the dispatcher needs
type Balancer interface {
	Select() (*keypool.Key, error)
	Acquire(k *keypool.Key)
	Release(k *keypool.Key)
	MarkFailed(k *keypool.Key)
}

// Dispatcher runs upstream calls against keys chosen by a Balancer,
// retrying failed calls on freshly selected keys
type Dispatcher struct {
	balancer  Balancer
	retry     config.RetryConfig
	limiters  ratelimit.IRateLimiterManager
	supported map[string]struct{}
	metrics   metrics.MetricsRecorder
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

type Option func(*Dispatcher)

// WithRateLimiter waits on the selected key's limiter before every attempt
func WithRateLimiter(m ratelimit.IRateLimiterManager) Option {
	return func(d *Dispatcher) {
		d.limiters = m
	}
}

// WithSupportedProviders rejects keys of any other provider with an
// UnsupportedProvider error. By default every provider is accepted.
func WithSupportedProviders(providers ...string) Option {
	return func(d *Dispatcher) {
		d.supported = make(map[string]struct{}, len(providers))
		for _, p := range providers {
			d.supported[p] = struct{}{}
		}
	}
}

func WithMetrics(m metrics.MetricsRecorder) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func New(b Balancer, retry config.RetryConfig, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		balancer: b,
		retry:    retry,
		metrics:  metrics.NewNoopMetrics(),
		logger:   slog.Default(),
		sleep:    sleepContext,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Do runs exec with up to 1+MaxRetries selected keys. Selection failures,
// unsupported providers, permanent errors and context cancellation end the
// loop immediately; exhausting all attempts yields an Upstream error.
func (d *Dispatcher) Do(ctx context.Context, exec Executor) error {
	attempts := d.retry.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			d.metrics.IncrementRetries()
			delay := Backoff(d.retry, attempt)
			d.logger.Debug("retrying upstream call",
				"attempt", attempt,
				"max_retries", d.retry.MaxRetries,
				"delay", delay,
				"error", lastErr)
			if err := d.sleep(ctx, delay); err != nil {
				return err
			}
		}

		key, err := d.balancer.Select()
		if err != nil {
			return err
		}

		if !d.supports(key.Provider()) {
			d.metrics.RecordDispatchAttempt(key.ID(), "unsupported_provider")
			return errs.UnsupportedProvider(key.Provider())
		}

		if err := d.waitForLimit(ctx, key); err != nil {
			d.metrics.RecordDispatchAttempt(key.ID(), "rate_limited")
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}

		err = d.call(ctx, key, exec)
		if err == nil {
			d.metrics.RecordDispatchAttempt(key.ID(), "success")
			return nil
		}

		d.balancer.MarkFailed(key)
		d.metrics.RecordDispatchAttempt(key.ID(), "error")
		d.logger.Warn("upstream call failed", "key_id", key.ID(), "provider", key.Provider(), "error", err)

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		lastErr = err
	}

	return errs.Upstream(fmt.Sprintf("all %d attempts failed", attempts), lastErr)
}

func (d *Dispatcher) call(ctx context.Context, key *keypool.Key, exec Executor) error {
	d.balancer.Acquire(key)
	defer d.balancer.Release(key)

	return exec(ctx, key)
}

func (d *Dispatcher) supports(provider string) bool {
	if d.supported == nil {
		return true
	}
	_, ok := d.supported[provider]
	return ok
}

func (d *Dispatcher) waitForLimit(ctx context.Context, key *keypool.Key) error {
	if d.limiters == nil {
		return nil
	}
	limiter := d.limiters.GetLimiter(key.ID(), key.Provider())
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent marks err as not worth retrying on another key
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
