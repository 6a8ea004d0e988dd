package keypool

import (
	"sync/atomic"

	"github.com/status-im/proxy-gatekeeper/config"
	"github.com/status-im/proxy-gatekeeper/errs"
)

// Pool owns the keys backing one load balancer and the rotation cursor
// shared by all selections. It is safe for concurrent use and never blocks.
type Pool struct {
	keys []Key

	// cursor is only ever read through fetch-and-increment, and
	// reduced modulo the pool size at read time
	cursor atomic.Uint64
}

// New creates one Key per config entry, in order, with zeroed counters
func New(configs []config.KeyConfig) *Pool {
	p := &Pool{keys: make([]Key, len(configs))}

	for i, cfg := range configs {
		p.keys[i].init(cfg)
	}

	return p
}

func (p *Pool) Len() int {
	return len(p.keys)
}

func (p *Pool) IsEmpty() bool {
	return len(p.keys) == 0
}

// At returns the key at position i in configuration order
func (p *Pool) At(i int) *Key {
	return &p.keys[i]
}

// next returns the pre-increment cursor value. Every caller sees a distinct value.
func (p *Pool) next() uint64 {
	return p.cursor.Add(1) - 1
}

// PickRR returns the key at the pre-increment cursor modulo the pool size
func (p *Pool) PickRR() (*Key, error) {
	if len(p.keys) == 0 {
		return nil, errs.ErrNoAvailableKeys
	}
	idx := p.next() % uint64(len(p.keys))
	return &p.keys[idx], nil
}

// Acquire records the start of an upstream call made with k
func (p *Pool) Acquire(k *Key) {
	k.inFlight.Add(1)
}

// Release records the end of an upstream call started with Acquire
func (p *Pool) Release(k *Key) {
	for {
		cur := k.inFlight.Load()
		if cur <= 0 || k.inFlight.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// MarkFailed records a failed upstream call made with k
func (p *Pool) MarkFailed(k *Key) {
	k.failCount.Add(1)
}

// Snapshot copies the current counters of every key, in configuration order
func (p *Pool) Snapshot() []KeyStats {
	stats := make([]KeyStats, len(p.keys))
	for i := range p.keys {
		k := &p.keys[i]
		stats[i] = KeyStats{
			ID:        k.id,
			Provider:  k.provider,
			Weight:    k.weight,
			FailCount: k.failCount.Load(),
			InFlight:  k.inFlight.Load(),
		}
	}
	return stats
}
