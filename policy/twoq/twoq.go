// Package twoq implements the 2Q admission policy, which resists scan
// pollution better than plain LRU.
package twoq

import (
	"container/list"

	"github.com/cuipf1989/pincache/policy"
)

// New constructs a 2Q policy factory with per-shard queue sizes:
// capIn for A1in (the probation queue), capGhost for A1out (key-only
// ghosts granting a second chance on re-admission). Common choices are
// capIn ≈ 25% and capGhost ≈ 50–100% of the shard capacity.
func New[K comparable](capIn, capGhost int) policy.Policy[K] {
	if capIn < 1 {
		capIn = 1
	}
	if capGhost < 1 {
		capGhost = 1
	}
	return twoQPolicy[K]{capIn: capIn, capGhost: capGhost}
}

type twoQPolicy[K comparable] struct {
	capIn    int
	capGhost int
}

func (p twoQPolicy[K]) New(h policy.Hooks[K]) policy.ShardPolicy[K] {
	return &twoQ[K]{
		h:         h,
		capIn:     p.capIn,
		capGhost:  p.capGhost,
		inList:    list.New(),
		inIdx:     make(map[policy.Node[K]]*list.Element),
		ghostList: list.New(),
		ghostIdx:  make(map[K]*list.Element),
	}
}

// twoQ keeps two structures beside the shard's main list:
//
//   - A1in: nodes seen exactly once, MRU at Front. Overflow from A1in
//     is the eviction candidate handed back to the shard.
//   - A1out: keys of nodes recently dropped from A1in. A key found here
//     on re-insert bypasses A1in and joins the mature queue directly.
//
// Nodes absent from inIdx are mature; their ordering lives entirely in
// the shard list. All methods run under the shard lock.
type twoQ[K comparable] struct {
	h policy.Hooks[K]

	capIn    int
	capGhost int

	inList *list.List                      // A1in, element value is policy.Node[K]
	inIdx  map[policy.Node[K]]*list.Element

	ghostList *list.List          // A1out, element value is K
	ghostIdx  map[K]*list.Element
}

func (q *twoQ[K]) OnAdd(n policy.Node[K]) (evict policy.Node[K]) {
	k := n.Key()
	if ge, ok := q.ghostIdx[k]; ok {
		// Second chance: admit straight into the mature queue.
		q.ghostList.Remove(ge)
		delete(q.ghostIdx, k)
		q.h.PushFront(n)
		return nil
	}

	// First sighting: probation.
	q.h.PushFront(n)
	q.inIdx[n] = q.inList.PushFront(n)

	if q.inList.Len() > q.capIn {
		if back := q.inList.Back(); back != nil {
			return back.Value.(policy.Node[K])
		}
	}
	return nil
}

// OnGet promotes the node; a hit while on probation graduates it to the
// mature queue.
func (q *twoQ[K]) OnGet(n policy.Node[K]) {
	if el, ok := q.inIdx[n]; ok {
		q.inList.Remove(el)
		delete(q.inIdx, n)
	}
	q.h.MoveToFront(n)
}

// OnRemove drops policy state for a departing node. A node leaving A1in
// leaves a ghost behind so a prompt re-insert skips probation.
func (q *twoQ[K]) OnRemove(n policy.Node[K]) {
	el, ok := q.inIdx[n]
	if !ok {
		return
	}
	q.inList.Remove(el)
	delete(q.inIdx, n)

	k := n.Key()
	if old := q.ghostIdx[k]; old != nil {
		q.ghostList.Remove(old)
	}
	q.ghostIdx[k] = q.ghostList.PushFront(k)

	for q.ghostList.Len() > q.capGhost {
		tail := q.ghostList.Back()
		if tail == nil {
			break
		}
		delete(q.ghostIdx, tail.Value.(K))
		q.ghostList.Remove(tail)
	}
}
