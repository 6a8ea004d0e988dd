package balancer

import (
	"github.com/status-im/proxy-gatekeeper/config"
	"github.com/status-im/proxy-gatekeeper/errs"
	"github.com/status-im/proxy-gatekeeper/keypool"
	"github.com/status-im/proxy-gatekeeper/metrics"
)

// LoadBalancer binds a policy to the key pool it exclusively owns.
// It is the only way callers reach the pool.
type LoadBalancer struct {
	policy   config.LbPolicy
	label    string
	strategy Strategy
	pool     *keypool.Pool
	metrics  metrics.MetricsRecorder
}

type Option func(*LoadBalancer)

func WithMetrics(m metrics.MetricsRecorder) Option {
	return func(lb *LoadBalancer) {
		lb.metrics = m
	}
}

// WithStrategy overrides the strategy derived from the policy
func WithStrategy(s Strategy) Option {
	return func(lb *LoadBalancer) {
		lb.strategy = s
	}
}

// New builds a pool from keys and binds it to policy
func New(policy config.LbPolicy, keys []config.KeyConfig, opts ...Option) *LoadBalancer {
	lb := &LoadBalancer{
		policy:   policy,
		label:    policy.String(),
		strategy: StrategyFor(policy),
		pool:     keypool.New(keys),
		metrics:  metrics.NewNoopMetrics(),
	}

	for _, opt := range opts {
		opt(lb)
	}

	return lb
}

// Select returns the key for the next request, or errs.ErrNoAvailableKeys.
// It never blocks and is safe to call from any number of goroutines.
func (lb *LoadBalancer) Select() (*keypool.Key, error) {
	k, err := lb.strategy.Pick(lb.pool)
	if err != nil {
		lb.metrics.RecordSelectionError(lb.label, errs.KindOf(err).String())
		return nil, err
	}
	lb.metrics.RecordSelection(lb.label, k.ID())
	return k, nil
}

func (lb *LoadBalancer) IsEmpty() bool {
	return lb.pool.IsEmpty()
}

func (lb *LoadBalancer) Len() int {
	return lb.pool.Len()
}

func (lb *LoadBalancer) Policy() config.LbPolicy {
	return lb.policy
}

// Acquire marks k as serving an upstream call
func (lb *LoadBalancer) Acquire(k *keypool.Key) {
	lb.pool.Acquire(k)
}

// Release ends an upstream call started with Acquire
func (lb *LoadBalancer) Release(k *keypool.Key) {
	lb.pool.Release(k)
}

func (lb *LoadBalancer) MarkFailed(k *keypool.Key) {
	lb.pool.MarkFailed(k)
}

// Snapshot returns the current per-key counters
func (lb *LoadBalancer) Snapshot() []keypool.KeyStats {
	return lb.pool.Snapshot()
}
