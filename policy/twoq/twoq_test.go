package twoq

import (
	"testing"

	"github.com/cuipf1989/pincache/policy"
)

// --- test doubles (same shape as in the LRU tests) ---

type testNode[K comparable] struct{ k K }

func (n *testNode[K]) Key() K { return n.k }

type mockHooks[K comparable] struct {
	pushFrontCnt   int
	moveToFrontCnt int

	lastPush policy.Node[K]
	lastMove policy.Node[K]
}

func (h *mockHooks[K]) PushFront(n policy.Node[K])   { h.pushFrontCnt++; h.lastPush = n }
func (h *mockHooks[K]) MoveToFront(n policy.Node[K]) { h.moveToFrontCnt++; h.lastMove = n }
func (h *mockHooks[K]) Remove(policy.Node[K])        {}
func (h *mockHooks[K]) Back() policy.Node[K]         { return nil }
func (h *mockHooks[K]) Len() int                     { return 0 }

// --- tests ---

// A first-time key is admitted into A1in without an eviction.
func TestTwoQ_AddGoesToA1in(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string](2, 4).New(h).(*twoQ[string])

	n1 := &testNode[string]{k: "a"}
	if ev := p.OnAdd(n1); ev != nil {
		t.Fatal("OnAdd should not evict yet")
	}
	if p.inList.Len() != 1 {
		t.Fatalf("A1in must have 1 element, got %d", p.inList.Len())
	}
	if _, ok := p.inIdx[policy.Node[string](n1)]; !ok {
		t.Fatal("n1 must be present in the A1in index")
	}
	if h.pushFrontCnt != 1 || h.lastPush != policy.Node[string](n1) {
		t.Fatal("admission must push the node to MRU")
	}
}

// When A1in overflows, OnAdd returns its LRU candidate.
func TestTwoQ_OverflowReturnsLRUOfA1in(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string](2, 4).New(h).(*twoQ[string])

	n1 := &testNode[string]{k: "a"}
	n2 := &testNode[string]{k: "b"}
	n3 := &testNode[string]{k: "c"}

	p.OnAdd(n1)       // A1in: [n1]
	p.OnAdd(n2)       // A1in: [n2, n1] (cap reached)
	ev := p.OnAdd(n3) // A1in: [n3, n2, n1] -> LRU is n1

	if ev != policy.Node[string](n1) {
		t.Fatalf("expected evict candidate n1 (LRU of A1in), got %v", ev)
	}
}

// A hit while on probation graduates the node out of A1in.
func TestTwoQ_GetGraduatesFromA1in(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string](2, 4).New(h).(*twoQ[string])

	n := &testNode[string]{k: "a"}
	p.OnAdd(n)
	p.OnGet(n)

	if p.inList.Len() != 0 {
		t.Fatalf("A1in must be empty after graduation, got %d", p.inList.Len())
	}
	if h.moveToFrontCnt != 1 || h.lastMove != policy.Node[string](n) {
		t.Fatal("OnGet must promote the node to MRU")
	}
}

// Removing a probation node leaves its key in the ghost queue.
func TestTwoQ_OnRemoveFromA1inGoesToGhost(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string](2, 4).New(h).(*twoQ[string])

	n := &testNode[string]{k: "a"}
	p.OnAdd(n)
	p.OnRemove(n)

	if p.inList.Len() != 0 {
		t.Fatal("A1in must drop the removed node")
	}
	if _, ok := p.ghostIdx["a"]; !ok {
		t.Fatal("removed A1in key must become a ghost")
	}
}

// A ghosted key re-inserted bypasses probation entirely.
func TestTwoQ_GhostBypassesA1in(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string](2, 4).New(h).(*twoQ[string])

	n := &testNode[string]{k: "a"}
	p.OnAdd(n)
	p.OnRemove(n) // "a" ghosted

	n2 := &testNode[string]{k: "a"}
	if ev := p.OnAdd(n2); ev != nil {
		t.Fatal("ghost re-admission must not evict")
	}
	if p.inList.Len() != 0 {
		t.Fatal("ghost re-admission must skip A1in")
	}
	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("ghost entry must be consumed on re-admission")
	}
}

// Ghost capacity is enforced by dropping the oldest ghosts.
func TestTwoQ_GhostCapacity(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string](4, 2).New(h).(*twoQ[string])

	for _, k := range []string{"a", "b", "c"} {
		n := &testNode[string]{k: k}
		p.OnAdd(n)
		p.OnRemove(n)
	}

	if p.ghostList.Len() != 2 {
		t.Fatalf("ghost list must hold 2 keys, got %d", p.ghostList.Len())
	}
	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("oldest ghost must be dropped")
	}
}

// Mature nodes (not in A1in) leave no ghost on removal.
func TestTwoQ_MatureRemoveLeavesNoGhost(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string](2, 4).New(h).(*twoQ[string])

	n := &testNode[string]{k: "a"}
	p.OnAdd(n)
	p.OnGet(n)    // graduate
	p.OnRemove(n) // mature removal

	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("mature removal must not create a ghost")
	}
}
