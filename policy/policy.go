// Package policy defines the pluggable eviction policy contract used by
// the cache shards. A policy orders resident entries via the Hooks the
// shard provides; the shard itself owns the key index, the pin counts
// and the actual eviction.
package policy

// Node is the minimal view of a resident cache entry a policy sees.
// Values are immutable once inserted, so the key is all a policy needs;
// node identity (interface equality) is stable for the entry's lifetime.
type Node[K comparable] interface {
	Key() K
}

// Hooks expose O(1) operations on the shard's intrusive MRU/LRU list.
// All calls happen under the shard lock. Hooks manage only the list;
// the shard keeps the key index and usage accounting consistent.
type Hooks[K comparable] interface {
	// PushFront inserts a newly admitted node at MRU.
	PushFront(Node[K])
	// MoveToFront promotes a node to MRU.
	MoveToFront(Node[K])
	// Remove detaches a node from the list.
	Remove(Node[K])
	// Back returns the current LRU node, or nil when the list is empty.
	Back() Node[K]
	// Len returns the number of registered nodes.
	Len() int
}

// ShardPolicy is a per-shard policy instance bound to one shard's hooks.
// All methods run under that shard's lock.
//
//   - OnAdd admits a new node and may return an eviction candidate
//     (e.g. the tail of a probation queue); the shard then unregisters
//     that node and calls OnRemove for it.
//   - OnGet records a hit, typically promoting the node.
//   - OnRemove tells the policy a node left the shard for any reason
//     (capacity, overwrite, erase, prune) so it can drop internal state.
type ShardPolicy[K comparable] interface {
	OnAdd(Node[K]) (evict Node[K])
	OnGet(Node[K])
	OnRemove(Node[K])
}

// Policy is a factory producing shard-local instances bound to hooks.
type Policy[K comparable] interface {
	New(Hooks[K]) ShardPolicy[K]
}
