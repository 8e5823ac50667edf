package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/cuipf1989/pincache/internal/singleflight"
	"github.com/cuipf1989/pincache/internal/util"
	"github.com/cuipf1989/pincache/policy/lru"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
var ErrNoLoader = errors.New("pincache: no Loader provided")

// ErrClosed is returned by GetOrLoad after Close.
var ErrClosed = errors.New("pincache: cache is closed")

// cache routes every operation to one of N independent shards chosen by
// the key's hash. Shards never coordinate: no rebalancing, no capacity
// borrowing.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool

	opt Options[K, V]

	// singleflight group coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options. The total Capacity
// is divided evenly across shards, rounding up, so the per-shard budget
// times the shard count may slightly exceed the total.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity <= 0 {
		panic("pincache: Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = lru.New[K]()
	}
	if opt.Hasher == nil {
		opt.Hasher = util.Fnv64a[K]
	}

	n := opt.Shards
	if n <= 0 {
		n = DefaultShards
	} else {
		n = int(util.NextPow2(uint64(n)))
	}

	perShard := util.SplitCapacity(opt.Capacity, n)
	ss := make([]*shard[K, V], n)
	for i := range ss {
		ss[i] = newShard[K, V](perShard, opt.Policy, opt)
	}

	return &cache[K, V]{
		shards: ss,
		hash:   opt.Hasher,
		opt:    opt,
	}
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Insert(k K, v V) *Handle[K, V] {
	return c.InsertWithCharge(k, v, 1)
}

func (c *cache[K, V]) InsertWithCharge(k K, v V, charge int64) *Handle[K, V] {
	if c.closed.Load() {
		return nil
	}
	if charge < 0 {
		charge = 0
	}
	return c.shardFor(k).Insert(k, v, charge)
}

func (c *cache[K, V]) Lookup(k K) (*Handle[K, V], bool) {
	if c.closed.Load() {
		return nil, false
	}
	return c.shardFor(k).Lookup(k)
}

// Release routes by the key embedded in the handle — the insertion key
// is authoritative for shard selection. Not gated on Close so leases
// can always drain.
func (c *cache[K, V]) Release(h *Handle[K, V]) {
	if h == nil {
		panic("pincache: release of nil handle")
	}
	c.shardFor(h.key).Release(h)
}

func (c *cache[K, V]) Erase(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.shardFor(k).Erase(k)
}

func (c *cache[K, V]) Prune() {
	if c.closed.Load() {
		return
	}
	for _, s := range c.shards {
		s.Prune()
	}
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key. The cached record keeps
// only its registration pin, so callers get a plain value and owe no
// Release.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	// Fast path.
	if h, ok := c.Lookup(k); ok {
		v := h.Value()
		c.Release(h)
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	return c.sf.Do(ctx, k, func() (V, error) {
		// Double-check after joining the flight.
		if h, ok := c.Lookup(k); ok {
			v := h.Value()
			c.Release(h)
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err != nil {
			return zero, err
		}
		if h := c.Insert(k, v); h != nil {
			c.Release(h)
		}
		return v, nil
	})
}

func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

func (c *cache[K, V]) Usage() int64 {
	var total int64
	for _, s := range c.shards {
		total += s.Usage()
	}
	return total
}

func (c *cache[K, V]) Capacity() int64 { return c.opt.Capacity }

func (c *cache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		st.Evictions += s.evicts.Load()
		st.Reclaims += s.reclaims.Load()
	}
	return st
}

func (c *cache[K, V]) Dump(w io.Writer) {
	for i, s := range c.shards {
		fmt.Fprintf(w, "shard %d:\n", i)
		s.Dump(w)
	}
}

// Close marks the cache as closed. Mutating operations become no-ops;
// Release still works. If background workers are ever added they should
// stop here.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// shardFor picks a shard by the key's hash. The shard count is a power
// of two, so selection is a mask.
func (c *cache[K, V]) shardFor(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}
