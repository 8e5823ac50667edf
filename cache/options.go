package cache

import (
	"context"

	"github.com/cuipf1989/pincache/policy"
)

// DefaultShards is the shard count used when Options.Shards is zero.
// It mirrors a 4-bit shard selector.
const DefaultShards = 16

// EvictReason explains why a record was unregistered from its shard.
type EvictReason int

const (
	// EvictCapacity — removed from the LRU end to satisfy the shard's
	// capacity limit.
	EvictCapacity EvictReason = iota
	// EvictPolicy — proposed by the active policy (e.g. 2Q probation
	// overflow).
	EvictPolicy
	// EvictPruned — swept by an explicit Prune call.
	EvictPruned
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	// Size reports per-shard totals after a mutating operation:
	// registered entry count and usage in charge units (usage includes
	// unregistered records that are still leased out).
	Size(entries int, usage int64)
}

// Options configures the cache. Zero values are safe; defaults are
// applied in New:
//   - nil Policy  => LRU
//   - nil Hasher  => generic FNV-1a
//   - nil Metrics => NoopMetrics
//   - Shards <= 0 => DefaultShards; otherwise rounded up to a power of two
type Options[K comparable, V any] struct {
	// Capacity is the total charge budget, split evenly (rounding up)
	// across shards. With the default charge of 1 it is an entry count.
	// Must be > 0; New panics otherwise.
	Capacity int64

	// Shards is the number of independent partitions. Keys never move
	// between shards and capacity is never rebalanced, so a hot shard
	// evicts while a cold one sits under-used.
	Shards int

	// Policy selects the eviction ordering strategy; nil means LRU.
	Policy policy.Policy[K]

	// Hasher maps a key to the 64-bit hash used for shard selection.
	// Nil selects the built-in FNV-1a, which panics on key types it
	// does not know how to disperse.
	Hasher func(K) uint64

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called when a record is unregistered by capacity
	// pressure, the policy, or Prune — not by Erase or overwrite.
	// Runs under the shard lock; keep it lightweight.
	OnEvict func(k K, v V, reason EvictReason)

	// OnReclaim is called when a record's last pin is released and its
	// charge leaves usage. Runs under the shard lock.
	OnReclaim func(k K, v V)

	// Metrics receives Hit/Miss/Evict/Size signals; nil => NoopMetrics.
	Metrics Metrics
}
