package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/status-im/proxy-gatekeeper/errs"
)

// Environment variable names read by LoadFromEnv
const (
	EnvProvider    = "GATEKEEPER_PROVIDER"
	EnvKeysJSON    = "GATEKEEPER_KEYS_JSON"
	EnvKeys        = "GATEKEEPER_KEYS"
	EnvLbPolicy    = "GATEKEEPER_LB_POLICY"
	EnvRetryMax    = "GATEKEEPER_RETRY_MAX"
	EnvRetryBaseMs = "GATEKEEPER_RETRY_BASE_MS"
	EnvRetryJitter = "GATEKEEPER_RETRY_JITTER"
	EnvKeyRPM      = "GATEKEEPER_KEY_RPM"
	EnvKeyBurst    = "GATEKEEPER_KEY_BURST"
	EnvConfigFile  = "GATEKEEPER_CONFIG_FILE"
)

// Source looks up a named configuration value
type Source func(name string) (string, bool)

// EnvSource reads from the process environment
func EnvSource() Source {
	return os.LookupEnv
}

// MapSource reads from a fixed map
func MapSource(values map[string]string) Source {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

// Load reads the YAML file named by GATEKEEPER_CONFIG_FILE when set,
// otherwise the environment
func Load() (*Config, error) {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return LoadFromFile(path)
	}
	return LoadFromEnv()
}

// LoadFromEnv loads and validates configuration from environment variables
func LoadFromEnv() (*Config, error) {
	return LoadFromSource(EnvSource())
}

// LoadFromSource loads and validates configuration from key/value lookups.
// Retry and rate limit tunables fall back to defaults when absent or unparsable;
// everything else fails with an InvalidConfig error.
func LoadFromSource(lookup Source) (*Config, error) {
	cfg := New()

	if provider, ok := lookup(EnvProvider); ok {
		cfg.Provider = &provider
	}

	if policyStr, ok := lookup(EnvLbPolicy); ok {
		policy, err := ParseLbPolicy(policyStr)
		if err != nil {
			return nil, err
		}
		cfg.LbPolicy = policy
	}

	if s, ok := lookup(EnvRetryMax); ok {
		if v, err := strconv.ParseUint(s, 10, 32); err == nil {
			cfg.Retry.MaxRetries = int(v)
		}
	}

	if s, ok := lookup(EnvRetryBaseMs); ok {
		if v, err := strconv.ParseUint(s, 10, 31); err == nil {
			cfg.Retry.BaseDelayMs = int(v)
		}
	}

	if s, ok := lookup(EnvRetryJitter); ok {
		cfg.Retry.Jitter = s == "1" || strings.EqualFold(s, "true")
	}

	if s, ok := lookup(EnvKeyRPM); ok {
		if v, err := strconv.ParseUint(s, 10, 31); err == nil {
			cfg.RateLimit.RequestsPerMinute = int(v)
		}
	}

	if s, ok := lookup(EnvKeyBurst); ok {
		if v, err := strconv.ParseUint(s, 10, 31); err == nil {
			cfg.RateLimit.Burst = int(v)
		}
	}

	keys, err := loadKeys(lookup, cfg.Provider)
	if err != nil {
		return nil, err
	}
	cfg.Keys = keys

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadKeys(lookup Source, provider *string) ([]KeyConfig, error) {
	if raw, ok := lookup(EnvKeysJSON); ok && strings.TrimSpace(raw) != "" {
		keys, err := ParseKeysJSON(raw)
		if err != nil {
			return nil, errs.InvalidConfig("invalid %s: %v", EnvKeysJSON, err)
		}
		return keys, nil
	}

	raw, _ := lookup(EnvKeys)
	defaultProvider := DefaultProvider
	if provider != nil {
		defaultProvider = *provider
	}
	return ParseKeysList(raw, defaultProvider), nil
}

// keyRecord mirrors KeyConfig with optional fields so missing ones can be detected
type keyRecord struct {
	ID       *string `json:"id" yaml:"id"`
	Value    *string `json:"value" yaml:"value"`
	Provider *string `json:"provider" yaml:"provider"`
	Weight   *int    `json:"weight" yaml:"weight"`
}

// toKeyConfig converts a decoded record. When requireWeight is false an
// absent weight becomes 1.
func (r keyRecord) toKeyConfig(index int, requireWeight bool) (KeyConfig, error) {
	switch {
	case r.ID == nil:
		return KeyConfig{}, fmt.Errorf("key %d: missing field `id`", index)
	case r.Value == nil:
		return KeyConfig{}, fmt.Errorf("key %d: missing field `value`", index)
	case r.Provider == nil:
		return KeyConfig{}, fmt.Errorf("key %d: missing field `provider`", index)
	case r.Weight == nil && requireWeight:
		return KeyConfig{}, fmt.Errorf("key %d: missing field `weight`", index)
	}

	weight := 1
	if r.Weight != nil {
		weight = *r.Weight
	}

	return KeyConfig{
		ID:       *r.ID,
		Value:    *r.Value,
		Provider: *r.Provider,
		Weight:   weight,
	}, nil
}

func recordsToKeys(records []keyRecord, requireWeight bool) ([]KeyConfig, error) {
	keys := make([]KeyConfig, 0, len(records))
	for i, r := range records {
		k, err := r.toKeyConfig(i, requireWeight)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ParseKeysJSON parses the structured key list encoding: a JSON array of
// {"id","value","provider","weight"} objects. Every field is required.
func ParseKeysJSON(raw string) ([]KeyConfig, error) {
	var records []keyRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	return recordsToKeys(records, true)
}

// ParseKeysList parses the flat comma-separated encoding. Ids are synthesized
// as k1..kN over the non-empty segments.
func ParseKeysList(raw string, provider string) []KeyConfig {
	var keys []KeyConfig
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keys = append(keys, KeyConfig{
			ID:       "k" + strconv.Itoa(len(keys)+1),
			Value:    part,
			Provider: provider,
			Weight:   1,
		})
	}
	return keys
}
