// Package lru implements the default least-recently-used policy.
package lru

import "github.com/cuipf1989/pincache/policy"

type lruPolicy[K comparable] struct{}

// New returns a Policy factory producing per-shard LRU instances.
func New[K comparable]() policy.Policy[K] { return lruPolicy[K]{} }

func (lruPolicy[K]) New(h policy.Hooks[K]) policy.ShardPolicy[K] {
	return &lru[K]{h: h}
}

// lru is classic move-to-front. It never proposes evictions itself;
// the shard trims from the back under capacity pressure.
type lru[K comparable] struct {
	h policy.Hooks[K]
}

func (p *lru[K]) OnAdd(n policy.Node[K]) (evict policy.Node[K]) {
	p.h.PushFront(n)
	return nil
}

func (p *lru[K]) OnGet(n policy.Node[K]) { p.h.MoveToFront(n) }

func (p *lru[K]) OnRemove(policy.Node[K]) {}
