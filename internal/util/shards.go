package util

// ShardIndex maps a 64-bit hash to a shard index.
// Power-of-two shard counts take the mask fast path; any other count
// still resolves correctly via modulo.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}

// SplitCapacity divides a total capacity evenly across shards,
// rounding up so that the shard sum never undercuts the total.
func SplitCapacity(total int64, shards int) int64 {
	if shards <= 1 {
		return total
	}
	return (total + int64(shards) - 1) / int64(shards)
}
