package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/status-im/proxy-gatekeeper/errs"
)

// LbPolicy selects the algorithm that picks the key for the next request
type LbPolicy int

const (
	RoundRobin LbPolicy = iota
	WeightedRoundRobin
	LeastPending
)

func (p LbPolicy) String() string {
	switch p {
	case RoundRobin:
		return "ROUND_ROBIN"
	case WeightedRoundRobin:
		return "WEIGHTED_ROUND_ROBIN"
	case LeastPending:
		return "LEAST_PENDING"
	default:
		return fmt.Sprintf("LbPolicy(%d)", int(p))
	}
}

// IsValid reports whether p is one of the declared policies
func (p LbPolicy) IsValid() bool {
	switch p {
	case RoundRobin, WeightedRoundRobin, LeastPending:
		return true
	default:
		return false
	}
}

// ParseLbPolicy maps a case-insensitive selector alias to a policy.
// An empty selector yields RoundRobin.
func ParseLbPolicy(s string) (LbPolicy, error) {
	switch strings.ToUpper(s) {
	case "", "RR", "ROUND_ROBIN":
		return RoundRobin, nil
	case "WRR", "WEIGHTED_ROUND_ROBIN":
		return WeightedRoundRobin, nil
	case "LP", "LEAST_PENDING":
		return LeastPending, nil
	default:
		return RoundRobin, errs.InvalidConfig("unknown lb policy: %s", s)
	}
}

func (p LbPolicy) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, errs.InvalidConfig("unknown lb policy: %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *LbPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseLbPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalYAML implements custom YAML unmarshaling for LbPolicy
func (p *LbPolicy) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(str))
}
