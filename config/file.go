package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/status-im/proxy-gatekeeper/errs"
)

type fileConfig struct {
	Provider  *string     `yaml:"provider"`
	Keys      []keyRecord `yaml:"keys"`
	LbPolicy  LbPolicy    `yaml:"lb_policy"`
	Retry     RetryConfig `yaml:"retry"`
	RateLimit RateLimit   `yaml:"rate_limit"`

	ProviderRateLimits map[string]RateLimit `yaml:"provider_rate_limits"`
}

// LoadFromFile loads and validates a YAML configuration file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.InvalidConfig("failed to read config file: %v", err)
	}

	return ParseYAML(data)
}

// ParseYAML decodes and validates a YAML configuration document.
// Absent retry fields keep their defaults and absent weights become 1.
func ParseYAML(data []byte) (*Config, error) {
	defaults := New()
	fc := fileConfig{
		LbPolicy: defaults.LbPolicy,
		Retry:    defaults.Retry,
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		if errs.KindOf(err) == errs.KindInvalidConfig {
			return nil, err
		}
		return nil, errs.InvalidConfig("failed to parse config: %v", err)
	}

	keys, err := recordsToKeys(fc.Keys, false)
	if err != nil {
		return nil, errs.InvalidConfig("failed to parse config: %v", err)
	}

	cfg := &Config{
		Provider:  fc.Provider,
		Keys:      keys,
		LbPolicy:  fc.LbPolicy,
		Retry:     fc.Retry,
		RateLimit: fc.RateLimit,

		ProviderRateLimits: fc.ProviderRateLimits,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
