package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/status-im/proxy-gatekeeper/config"
)

func TestNewRateLimiterManager(t *testing.T) {
	mgr := NewRateLimiterManager(config.RateLimit{}, nil)
	require.NotNil(t, mgr)
	assert.NotNil(t, mgr.keyToLimiter)
}

func TestGetLimiter(t *testing.T) {
	t.Run("unlimited by default", func(t *testing.T) {
		mgr := NewRateLimiterManager(config.RateLimit{}, nil)
		assert.Nil(t, mgr.GetLimiter("k1", "openai"))
	})

	t.Run("uses defaults", func(t *testing.T) {
		mgr := NewRateLimiterManager(config.RateLimit{RequestsPerMinute: 60, Burst: 10}, nil)

		limiter := mgr.GetLimiter("k1", "openai")
		require.NotNil(t, limiter)
		assert.Equal(t, 10, limiter.Burst())
		// 60 req/min = 1 req/sec
		assert.Equal(t, rate.Limit(1.0), limiter.Limit())
	})

	t.Run("provider override", func(t *testing.T) {
		mgr := NewRateLimiterManager(
			config.RateLimit{RequestsPerMinute: 60, Burst: 10},
			map[string]config.RateLimit{
				"anthropic": {RequestsPerMinute: 120, Burst: 20},
				"local":     {},
			},
		)

		limiter := mgr.GetLimiter("k1", "anthropic")
		require.NotNil(t, limiter)
		assert.Equal(t, 20, limiter.Burst())
		assert.Equal(t, rate.Limit(2.0), limiter.Limit())

		assert.Nil(t, mgr.GetLimiter("k2", "local"), "zero override disables limiting")
	})

	t.Run("default burst", func(t *testing.T) {
		mgr := NewRateLimiterManager(config.RateLimit{RequestsPerMinute: 30}, nil)

		limiter := mgr.GetLimiter("k1", "openai")
		require.NotNil(t, limiter)
		assert.Equal(t, rate.Limit(0.5), limiter.Limit())
		assert.Equal(t, 1, limiter.Burst())
	})

	t.Run("same limiter for same key", func(t *testing.T) {
		mgr := NewRateLimiterManager(config.RateLimit{RequestsPerMinute: 60}, nil)

		assert.Same(t, mgr.GetLimiter("k1", "openai"), mgr.GetLimiter("k1", "openai"))
		assert.NotSame(t, mgr.GetLimiter("k1", "openai"), mgr.GetLimiter("k2", "openai"))
		assert.NotSame(t, mgr.GetLimiter("k1", "openai"), mgr.GetLimiter("k1", "anthropic"))
	})
}

func TestDefaultBurstForLimit(t *testing.T) {
	tests := []struct {
		name          string
		limit         rate.Limit
		expectedBurst int
	}{
		{"limit less than 1", rate.Limit(0.5), 1},
		{"limit equal to 1", rate.Limit(1.0), 1},
		{"limit greater than 1", rate.Limit(2.5), 3},
		{"limit with decimal", rate.Limit(10.1), 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedBurst, defaultBurstForLimit(tt.limit))
		})
	}
}

func TestGetLimiter_Concurrent(t *testing.T) {
	mgr := NewRateLimiterManager(config.RateLimit{RequestsPerMinute: 600}, nil)

	limiters := make([]*rate.Limiter, 50)
	var wg sync.WaitGroup
	for i := range limiters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			limiters[i] = mgr.GetLimiter("k1", "openai")
		}(i)
	}
	wg.Wait()

	for _, l := range limiters {
		assert.Same(t, limiters[0], l)
	}
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	mgr := NewRateLimiterManager(config.RateLimit{RequestsPerMinute: 1, Burst: 1}, nil)
	limiter := mgr.GetLimiter("k1", "openai")
	require.NotNil(t, limiter)

	// first token is available immediately
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx))
}
