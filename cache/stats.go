package cache

// Stats is a point-in-time snapshot of the aggregate counters kept by
// the shards. Counters are monotonic since construction.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions uint64 // unregistrations by capacity, policy, or prune
	Reclaims  uint64 // records whose last pin was released
}
