package balancer

import (
	"github.com/status-im/proxy-gatekeeper/config"
	"github.com/status-im/proxy-gatekeeper/keypool"
)

// Strategy picks the key for the next request from a pool
type Strategy interface {
	Pick(pool *keypool.Pool) (*keypool.Key, error)
}

// StrategyFor returns the strategy implementing policy.
// Unknown policies fall back to round robin.
func StrategyFor(policy config.LbPolicy) Strategy {
	switch policy {
	case config.WeightedRoundRobin:
		return weightedRoundRobin{}
	case config.LeastPending:
		return leastPending{}
	default:
		return roundRobin{}
	}
}

type roundRobin struct{}

func (roundRobin) Pick(pool *keypool.Pool) (*keypool.Key, error) {
	return pool.PickRR()
}

// weightedRoundRobin rotates like roundRobin. Key weights are carried in
// the pool but do not affect selection yet.
type weightedRoundRobin struct{}

func (weightedRoundRobin) Pick(pool *keypool.Pool) (*keypool.Key, error) {
	return pool.PickRR()
}

// leastPending rotates like roundRobin. In-flight counts are tracked but
// do not affect selection yet.
type leastPending struct{}

func (leastPending) Pick(pool *keypool.Pool) (*keypool.Key, error) {
	return pool.PickRR()
}
