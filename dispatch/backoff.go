package dispatch

import (
	"context"
	"math/rand"
	"time"

	"github.com/status-im/proxy-gatekeeper/config"
)

const (
	// MaxBackoff bounds the delay before jitter is added
	MaxBackoff = 10 * time.Minute

	maxBackoffShift = 16
)

// Backoff returns the delay before retry number attempt (1-based):
// base * 2^(attempt-1) capped at MaxBackoff, plus up to 50% random jitter
// when enabled
func Backoff(retry config.RetryConfig, attempt int) time.Duration {
	base := time.Duration(retry.BaseDelayMs) * time.Millisecond
	if base <= 0 {
		return base
	}
	if attempt <= 0 {
		return min(base, MaxBackoff)
	}

	shift := uint(min(attempt-1, maxBackoffShift))
	backoff := MaxBackoff
	if base <= MaxBackoff>>shift {
		backoff = base << shift
	}

	if !retry.Jitter || backoff < 2 {
		return backoff
	}
	return backoff + time.Duration(rand.Int63n(int64(backoff/2)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
