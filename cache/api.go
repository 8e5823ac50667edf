package cache

import (
	"context"
	"io"
)

// Cache is a sharded, capacity-bounded in-memory cache with reference
// counted entries. All methods are safe for concurrent use; each shard
// serializes its own structural and pin-count mutation under one lock.
//
// Typical operation cost is amortized O(1): a map access plus constant
// list adjustments under a shard lock.
type Cache[K comparable, V any] interface {
	// Insert stores k→v with charge 1 and returns the caller's lease on
	// the new record. If k is already present the old record is
	// unregistered first (it survives until its own leases drain).
	// The returned handle must be passed to Release exactly once.
	// Returns nil after Close.
	Insert(k K, v V) *Handle[K, V]

	// InsertWithCharge is Insert with an explicit charge (capacity
	// units, e.g. bytes). A negative charge is treated as zero.
	InsertWithCharge(k K, v V, charge int64) *Handle[K, V]

	// Lookup returns a new lease on the record registered under k, or
	// (nil, false) if k is absent. On hit the record is promoted
	// according to the active policy. The handle must be passed to
	// Release exactly once.
	Lookup(k K) (*Handle[K, V], bool)

	// Release returns a lease. Releasing a nil handle, or a handle more
	// times than it was handed out, is a caller bug and panics.
	// Release keeps working after Close so outstanding leases can drain.
	Release(h *Handle[K, V])

	// Erase unregisters k if present and returns true on success.
	// Leases already held on the record stay readable until released;
	// Erase only affects future lookups.
	Erase(k K) bool

	// Prune unregisters every record not currently leased out, in all
	// shards, regardless of capacity pressure.
	Prune()

	// GetOrLoad returns the value for k, loading it via Options.Loader
	// on miss. Concurrent loads for the same key are coalesced. The
	// value is returned by copy; no lease is held on the cached record.
	// Returns ErrNoLoader if no Loader was configured.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Len returns the number of registered (lookup-reachable) records
	// across all shards.
	Len() int

	// Usage returns the summed charge of all unreclaimed records,
	// including ones evicted from the index but still leased out.
	Usage() int64

	// Capacity returns the total capacity the cache was built with.
	Capacity() int64

	// Stats returns a snapshot of the aggregate operation counters.
	Stats() Stats

	// Dump writes a human-readable listing of all shards to w.
	// Diagnostic only; the format is not stable.
	Dump(w io.Writer)

	// Close marks the cache closed: Insert/Lookup/Erase/Prune become
	// no-ops. Current implementation is a soft close and returns nil.
	Close() error
}
