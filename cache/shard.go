package cache

import (
	"fmt"
	"io"
	"sync"

	"github.com/cuipf1989/pincache/internal/util"
	"github.com/cuipf1989/pincache/policy"
)

// shard is one independently bounded partition of the cache: a key
// index plus an intrusive doubly linked list (head=MRU, tail=LRU),
// both guarded by mu.
//
// Pin accounting follows the table/list registration model: a record
// enters with two pins (registration + the inserter's lease), each
// Lookup adds one, and the record's charge stays in usage until the
// last pin is released — even after the record has left the index.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu    sync.Mutex
	table map[K]*Handle[K, V]
	head  *Handle[K, V] // MRU
	tail  *Handle[K, V] // LRU
	count int           // registered records (list length)
	usage int64         // charges of all unreclaimed records, zombies included
	cap   int64         // per-shard charge budget

	pol policy.ShardPolicy[K]
	opt Options[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_        util.CacheLinePad
	hits     util.PaddedAtomicInt64
	misses   util.PaddedAtomicInt64
	evicts   util.PaddedAtomicUint64
	reclaims util.PaddedAtomicUint64
}

func newShard[K comparable, V any](capacity int64, pol policy.Policy[K], opt Options[K, V]) *shard[K, V] {
	s := &shard[K, V]{
		table: make(map[K]*Handle[K, V]),
		cap:   capacity,
		opt:   opt,
	}
	s.pol = pol.New(shardHooks[K, V]{s: s})
	return s
}

// Insert creates a new record with two pins and registers it at MRU.
// An existing record under the same key is unregistered first; it is
// reclaimed on the spot unless a caller still leases it. The shard then
// evicts from the LRU end while usage exceeds capacity. Returns the
// inserter's lease.
func (s *shard[K, V]) Insert(k K, v V, charge int64) *Handle[K, V] {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &Handle[K, V]{key: k, value: v, charge: charge, pins: 2}

	if old, ok := s.table[k]; ok {
		// Replace whole record: the old one leaves the index now and
		// its registration pin with it.
		s.unregisterLocked(old)
		s.unpinLocked(old)
	}

	s.table[k] = h
	s.usage += charge

	if ev := s.pol.OnAdd(h); ev != nil {
		s.evictLocked(ev.(*Handle[K, V]), EvictPolicy)
	}

	// Trim from the LRU end. Usage counts leased-out zombies too, so
	// the list can drain before usage drops below capacity.
	for s.usage > s.cap && s.count > 0 {
		s.evictLocked(s.tail, EvictCapacity)
	}

	s.opt.Metrics.Size(s.count, s.usage)
	return h
}

// Lookup promotes the record and hands out one more lease.
func (s *shard[K, V]) Lookup(k K) (*Handle[K, V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.table[k]
	if !ok {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		return nil, false
	}
	s.pol.OnGet(h)
	h.pins++
	s.hits.Add(1)
	s.opt.Metrics.Hit()
	return h, true
}

// Release returns one lease. The final pin reclaims the record.
func (s *shard[K, V]) Release(h *Handle[K, V]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unpinLocked(h)
	s.opt.Metrics.Size(s.count, s.usage)
}

// Erase unregisters k regardless of its pin count. The record itself
// survives until every lease on it is released.
func (s *shard[K, V]) Erase(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.table[k]
	if !ok {
		return false
	}
	s.unregisterLocked(h)
	s.unpinLocked(h)
	s.opt.Metrics.Size(s.count, s.usage)
	return true
}

// Prune unregisters every record whose only remaining pin is the
// registration itself, removing it from both the index and the list.
func (s *shard[K, V]) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next *Handle[K, V]
	for h := s.head; h != nil; h = next {
		next = h.next // unregister clears the links
		if h.pins == 1 {
			s.evictLocked(h, EvictPruned)
		}
	}
	s.opt.Metrics.Size(s.count, s.usage)
}

// Len returns the number of registered records.
func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Usage returns the summed charge of all unreclaimed records.
func (s *shard[K, V]) Usage() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// Dump writes the shard's records, MRU first, to w.
func (s *shard[K, V]) Dump(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(w, "usage=%d capacity=%d entries=%d\n", s.usage, s.cap, s.count)
	for h := s.head; h != nil; h = h.next {
		fmt.Fprintf(w, "  key=%v pins=%d charge=%d\n", h.key, h.pins, h.charge)
	}
}

// -------------------- internals (mu held) --------------------

// unpinLocked releases one pin; the last pin reclaims the record and
// takes its charge out of usage. Over-release is a caller bug.
func (s *shard[K, V]) unpinLocked(h *Handle[K, V]) {
	if h.pins <= 0 {
		panic("pincache: release of already-released handle")
	}
	h.pins--
	if h.pins == 0 {
		s.usage -= h.charge
		s.reclaims.Add(1)
		if cb := s.opt.OnReclaim; cb != nil {
			cb(h.key, h.value)
		}
	}
}

// unregisterLocked removes h from the policy, the list and the index.
// It does not touch pins or usage.
func (s *shard[K, V]) unregisterLocked(h *Handle[K, V]) {
	s.pol.OnRemove(h)
	s.unlink(h)
	delete(s.table, h.key)
}

// evictLocked unregisters h, fires eviction signals, and drops the
// registration pin.
func (s *shard[K, V]) evictLocked(h *Handle[K, V], reason EvictReason) {
	s.unregisterLocked(h)
	s.evicts.Add(1)
	s.opt.Metrics.Evict(reason)
	if cb := s.opt.OnEvict; cb != nil {
		cb(h.key, h.value, reason)
	}
	s.unpinLocked(h)
}

// pushFront links h in at MRU in O(1).
func (s *shard[K, V]) pushFront(h *Handle[K, V]) {
	h.prev = nil
	h.next = s.head
	if s.head != nil {
		s.head.prev = h
	}
	s.head = h
	if s.tail == nil {
		s.tail = h
	}
	s.count++
}

// moveToFront promotes h to MRU in O(1).
func (s *shard[K, V]) moveToFront(h *Handle[K, V]) {
	if h == s.head {
		return
	}
	if h.prev != nil {
		h.prev.next = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	}
	if s.tail == h {
		s.tail = h.prev
	}
	h.prev = nil
	h.next = s.head
	if s.head != nil {
		s.head.prev = h
	}
	s.head = h
	if s.tail == nil {
		s.tail = h
	}
}

// unlink detaches h from the list in O(1).
func (s *shard[K, V]) unlink(h *Handle[K, V]) {
	if h.prev != nil {
		h.prev.next = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	}
	if s.head == h {
		s.head = h.next
	}
	if s.tail == h {
		s.tail = h.prev
	}
	h.prev, h.next = nil, nil
	s.count--
}

// -------------------- policy hooks --------------------

// shardHooks adapts the shard's list operations to policy.Hooks.
// All calls happen under the shard lock.
type shardHooks[K comparable, V any] struct{ s *shard[K, V] }

func (h shardHooks[K, V]) PushFront(n policy.Node[K])   { h.s.pushFront(n.(*Handle[K, V])) }
func (h shardHooks[K, V]) MoveToFront(n policy.Node[K]) { h.s.moveToFront(n.(*Handle[K, V])) }
func (h shardHooks[K, V]) Remove(n policy.Node[K])      { h.s.unlink(n.(*Handle[K, V])) }
func (h shardHooks[K, V]) Back() policy.Node[K] {
	if h.s.tail == nil {
		return nil
	}
	return h.s.tail
}
func (h shardHooks[K, V]) Len() int { return h.s.count }
