package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid config", InvalidConfig("unknown lb policy: %s", "X"), "invalid configuration: unknown lb policy: X"},
		{"no keys", ErrNoAvailableKeys, "no available keys"},
		{"unsupported provider", UnsupportedProvider("cohere"), "unsupported provider: cohere"},
		{"upstream", Upstream("all 3 attempts failed", nil), "upstream error: all 3 attempts failed"},
		{"upstream with cause", Upstream("all 3 attempts failed", errors.New("503")), "upstream error: all 3 attempts failed: 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("startup: %w", InvalidConfig("no API keys configured"))

	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.False(t, errors.Is(err, ErrNoAvailableKeys))
	assert.Equal(t, KindInvalidConfig, KindOf(err))
}

func TestUpstreamUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := Upstream("all 2 attempts failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, "no_available_keys", KindNoAvailableKeys.String())
}
