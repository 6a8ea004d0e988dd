package keypool

import (
	"sync/atomic"

	"github.com/status-im/proxy-gatekeeper/config"
)

// Key is one upstream credential plus its live usage counters.
// Identity fields are fixed at pool construction; counters are only
// changed through the owning Pool.
type Key struct {
	id       string
	value    string
	provider string
	weight   int

	failCount atomic.Uint32
	inFlight  atomic.Int64
}

func (k *Key) init(cfg config.KeyConfig) {
	k.id = cfg.ID
	k.value = cfg.Value
	k.provider = cfg.Provider
	k.weight = cfg.Weight
}

func (k *Key) ID() string {
	return k.id
}

// Value returns the secret used as the upstream credential
func (k *Key) Value() string {
	return k.value
}

func (k *Key) Provider() string {
	return k.provider
}

func (k *Key) Weight() int {
	return k.weight
}

// FailCount returns the number of failed upstream calls made with this key
func (k *Key) FailCount() uint32 {
	return k.failCount.Load()
}

// InFlight returns the number of upstream calls currently using this key
func (k *Key) InFlight() int64 {
	return k.inFlight.Load()
}

// KeyStats is a point-in-time copy of a key's counters
type KeyStats struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Weight    int    `json:"weight"`
	FailCount uint32 `json:"fail_count"`
	InFlight  int64  `json:"in_flight"`
}
