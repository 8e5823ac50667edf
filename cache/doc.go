// Package cache provides pincache: a fast, generic, sharded in-memory
// cache with approximate LRU eviction and reference-counted entries, so
// that records in active use are never reclaimed out from under a
// caller.
//
// # Design
//
//   - Pinning: Insert and Lookup hand out a Handle — a lease on the
//     record. A record carries one pin for its registration in the
//     shard index plus one per outstanding lease. Eviction, Erase and
//     overwrite only unregister a record; its memory and its charge
//     against usage stay until the last lease is released. Each handle
//     must be released exactly once; over-release panics.
//
//   - Sharding: the cache is split into 16 shards by default (tunable
//     via Options.Shards), each with its own mutex, key index, and an
//     intrusive MRU↔LRU list. The total capacity is divided evenly
//     across shards, rounding up. Shards never coordinate, so a hot
//     shard evicts aggressively while a cold one sits under-used.
//
//   - Charge: every record consumes caller-defined capacity units
//     (Insert charges 1; InsertWithCharge takes bytes or anything
//     else). A shard evicts from its LRU end while usage exceeds the
//     shard budget; leased-out records still count against usage.
//
//   - Policies: eviction ordering is pluggable via the policy package.
//     LRU is the default; a 2Q policy is provided (resists scan
//     pollution). The shard owns pins and the key index either way.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using an
//     internal singleflight group. The loaded value is returned by
//     copy, so callers owe no Release on this path.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     NoopMetrics is the default; adapters for Prometheus and
//     OpenTelemetry live under metrics/.
//
// # Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	h := c.Insert("a", []byte("1"))
//	// ... use h.Value() ...
//	c.Release(h)
//
//	if h, ok := c.Lookup("a"); ok {
//	    v := h.Value()
//	    _ = v
//	    c.Release(h)
//	}
//
// # Pinned records survive eviction
//
//	h := c.Insert("big", payload)
//	// Even if "big" is evicted or erased while we work, h.Value()
//	// remains readable; the record is reclaimed on our Release.
//	work(h.Value())
//	c.Release(h)
//
// # Weighted entries
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 64 << 20})
//	h := c.InsertWithCharge(key, blob, int64(len(blob)))
//	c.Release(h)
//
// # Thread safety
//
// All methods are safe for concurrent use. Each shard serializes its
// structural and pin-count mutation under one lock, so a lease handed
// to one goroutine stays valid while another evicts or overwrites the
// same key.
package cache
