package config

import (
	"github.com/status-im/proxy-gatekeeper/errs"
)

const (
	// DefaultProvider is assigned to flat-list keys when no global provider is set
	DefaultProvider = "default"

	// RedactedValue replaces secret key values in Redacted copies
	RedactedValue = "***"
)

// KeyConfig describes one upstream credential
type KeyConfig struct {
	ID       string `json:"id" yaml:"id"`
	Value    string `json:"value" yaml:"value"`
	Provider string `json:"provider" yaml:"provider"`
	Weight   int    `json:"weight" yaml:"weight"`
}

// RetryConfig holds retry tunables for the dispatch collaborator
type RetryConfig struct {
	MaxRetries  int  `json:"max_retries" yaml:"max_retries"`
	BaseDelayMs int  `json:"base_delay_ms" yaml:"base_delay_ms"`
	Jitter      bool `json:"jitter" yaml:"jitter"`
}

// DefaultRetryConfig returns default retry tunables
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  2,
		BaseDelayMs: 100,
		Jitter:      true,
	}
}

// RateLimit configures a per-key upstream request budget. Zero means unlimited.
type RateLimit struct {
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`
	Burst             int `json:"burst" yaml:"burst"`
}

// Config is the validated key pool configuration
type Config struct {
	Provider  *string     `json:"provider,omitempty" yaml:"provider"`
	Keys      []KeyConfig `json:"keys" yaml:"keys"`
	LbPolicy  LbPolicy    `json:"lb_policy" yaml:"lb_policy"`
	Retry     RetryConfig `json:"retry" yaml:"retry"`
	RateLimit RateLimit   `json:"rate_limit" yaml:"rate_limit"`

	// ProviderRateLimits overrides RateLimit for keys of the named provider
	ProviderRateLimits map[string]RateLimit `json:"provider_rate_limits,omitempty" yaml:"provider_rate_limits"`
}

type Option func(*Config)

// New builds a config with defaults applied. The result is not validated.
func New(opts ...Option) *Config {
	cfg := &Config{
		LbPolicy: RoundRobin,
		Retry:    DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

func WithProvider(provider string) Option {
	return func(c *Config) {
		c.Provider = &provider
	}
}

func WithKeys(keys ...KeyConfig) Option {
	return func(c *Config) {
		c.Keys = append(c.Keys, keys...)
	}
}

func WithLbPolicy(policy LbPolicy) Option {
	return func(c *Config) {
		c.LbPolicy = policy
	}
}

func WithRetry(retry RetryConfig) Option {
	return func(c *Config) {
		c.Retry = retry
	}
}

func WithRateLimit(limit RateLimit) Option {
	return func(c *Config) {
		c.RateLimit = limit
	}
}

// Validate checks the config invariants and reports the first violation.
// The check order is stable so error messages are deterministic.
func (c *Config) Validate() error {
	if len(c.Keys) == 0 {
		return errs.InvalidConfig("no API keys configured (%s or %s)", EnvKeys, EnvKeysJSON)
	}

	if c.Provider != nil {
		for _, k := range c.Keys {
			if k.Provider != *c.Provider {
				return errs.InvalidConfig("provider mismatch between global provider and per-key settings")
			}
		}
	}

	for _, k := range c.Keys {
		if k.Weight < 1 {
			return errs.InvalidConfig("key %q: weight must be positive, got %d", k.ID, k.Weight)
		}
	}

	if c.Retry.MaxRetries < 0 {
		return errs.InvalidConfig("retry max_retries must be non-negative")
	}

	if c.Retry.BaseDelayMs < 0 {
		return errs.InvalidConfig("retry base_delay_ms must be non-negative")
	}

	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return errs.InvalidConfig("rate limit values must be non-negative")
	}

	for provider, rl := range c.ProviderRateLimits {
		if rl.RequestsPerMinute < 0 || rl.Burst < 0 {
			return errs.InvalidConfig("rate limit values for provider %q must be non-negative", provider)
		}
	}

	return nil
}

// DuplicateKeyIDs returns ids that appear more than once, in first-seen order
func (c *Config) DuplicateKeyIDs() []string {
	seen := make(map[string]int, len(c.Keys))
	var dups []string
	for _, k := range c.Keys {
		seen[k.ID]++
		if seen[k.ID] == 2 {
			dups = append(dups, k.ID)
		}
	}
	return dups
}

// Redacted returns a deep copy with every key value masked.
// Use it for logging and display only.
func (c *Config) Redacted() *Config {
	cloned := *c

	if c.Provider != nil {
		p := *c.Provider
		cloned.Provider = &p
	}

	cloned.Keys = make([]KeyConfig, len(c.Keys))
	copy(cloned.Keys, c.Keys)
	for i := range cloned.Keys {
		cloned.Keys[i].Value = RedactedValue
	}

	if c.ProviderRateLimits != nil {
		cloned.ProviderRateLimits = make(map[string]RateLimit, len(c.ProviderRateLimits))
		for provider, rl := range c.ProviderRateLimits {
			cloned.ProviderRateLimits[provider] = rl
		}
	}

	return &cloned
}
