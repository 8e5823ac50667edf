package cache

// Handle is a cache record together with one lease on it. Insert and
// Lookup hand out handles; every handle must be given back to Release
// exactly once. The key, value and charge are fixed at insert time —
// overwriting a key creates a fresh record, it never mutates this one.
//
// A handle stays readable after its key has been evicted, erased or
// overwritten; only the final Release reclaims the record.
type Handle[K comparable, V any] struct {
	key    K
	value  V
	charge int64

	// pins counts outstanding holds: one for the shard's registration
	// in its index plus one per lease handed out. Guarded by the owning
	// shard's mutex. The record is reclaimed when pins reaches zero.
	pins int32

	// Intrusive list links (head = MRU, tail = LRU). nil once the
	// record has been unregistered.
	prev, next *Handle[K, V]
}

// Key returns the key the record was inserted under.
func (h *Handle[K, V]) Key() K { return h.key }

// Value returns the record's value.
func (h *Handle[K, V]) Value() V { return h.value }

// Charge returns the capacity units the record holds against usage.
func (h *Handle[K, V]) Charge() int64 { return h.charge }
