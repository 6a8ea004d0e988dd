package ratelimit

import (
	"math"
	"sync"

	"golang.org/x/time/rate"

	"github.com/status-im/proxy-gatekeeper/config"
)

// IRateLimiterManager provides the upstream rate limiter for a pool key
type IRateLimiterManager interface {
	GetLimiter(keyID, provider string) *rate.Limiter
}

// RateLimiterManager manages per-key rate limiters. Limits come from the
// key's provider override when present, otherwise from the defaults.
type RateLimiterManager struct {
	mu           sync.RWMutex
	keyToLimiter map[string]*rate.Limiter
	defaults     config.RateLimit
	perProvider  map[string]config.RateLimit
}

var _ IRateLimiterManager = (*RateLimiterManager)(nil)

// NewRateLimiterManager creates a new rate limiter manager
func NewRateLimiterManager(defaults config.RateLimit, perProvider map[string]config.RateLimit) *RateLimiterManager {
	return &RateLimiterManager{
		keyToLimiter: make(map[string]*rate.Limiter),
		defaults:     defaults,
		perProvider:  perProvider,
	}
}

// GetLimiter returns the limiter for a key, creating it if missing.
// It returns nil when the key is not rate limited.
func (m *RateLimiterManager) GetLimiter(keyID, provider string) *rate.Limiter {
	mapKey := provider + "|" + keyID

	m.mu.RLock()
	if lim, ok := m.keyToLimiter[mapKey]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if lim, ok := m.keyToLimiter[mapKey]; ok {
		return lim
	}

	cfg := m.limitFor(provider)
	if cfg.RequestsPerMinute <= 0 {
		m.keyToLimiter[mapKey] = nil
		return nil
	}

	limit := rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurstForLimit(limit)
	}

	limiter := rate.NewLimiter(limit, burst)
	m.keyToLimiter[mapKey] = limiter
	return limiter
}

func (m *RateLimiterManager) limitFor(provider string) config.RateLimit {
	if cfg, ok := m.perProvider[provider]; ok {
		return cfg
	}
	return m.defaults
}

func defaultBurstForLimit(limit rate.Limit) int {
	if limit <= 1.0 {
		return 1
	}
	return int(math.Ceil(float64(limit)))
}
