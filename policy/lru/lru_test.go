package lru

import (
	"testing"

	"github.com/cuipf1989/pincache/policy"
)

// --- test doubles ---

type testNode[K comparable] struct{ k K }

func (n *testNode[K]) Key() K { return n.k }

type mockHooks[K comparable] struct {
	pushFrontCnt   int
	moveToFrontCnt int
	removeCnt      int

	lastPush policy.Node[K]
	lastMove policy.Node[K]

	lenVal  int
	backVal policy.Node[K]
}

func (h *mockHooks[K]) PushFront(n policy.Node[K])   { h.pushFrontCnt++; h.lastPush = n }
func (h *mockHooks[K]) MoveToFront(n policy.Node[K]) { h.moveToFrontCnt++; h.lastMove = n }
func (h *mockHooks[K]) Remove(policy.Node[K])        { h.removeCnt++ }
func (h *mockHooks[K]) Back() policy.Node[K]         { return h.backVal }
func (h *mockHooks[K]) Len() int                     { return h.lenVal }

// --- tests ---

// OnAdd should push the node to MRU and never propose an eviction;
// the shard trims under capacity pressure itself.
func TestLRU_OnAdd_PushFrontAndNoEvict(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string]().New(h)

	n := &testNode[string]{k: "k1"}
	if ev := p.OnAdd(n); ev != nil {
		t.Fatalf("OnAdd must not return an evict candidate, got %v", ev)
	}
	if h.pushFrontCnt != 1 || h.lastPush != n {
		t.Fatal("OnAdd must call PushFront exactly once with the node")
	}
	if h.moveToFrontCnt != 0 || h.removeCnt != 0 {
		t.Fatal("OnAdd must not call MoveToFront/Remove")
	}
}

// OnGet should promote the node to MRU.
func TestLRU_OnGet_MoveToFront(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string]().New(h)

	n := &testNode[string]{k: "k2"}
	p.OnGet(n)

	if h.moveToFrontCnt != 1 || h.lastMove != n {
		t.Fatal("OnGet must call MoveToFront exactly once with the node")
	}
	if h.pushFrontCnt != 0 || h.removeCnt != 0 {
		t.Fatal("OnGet must not call PushFront/Remove")
	}
}

// OnRemove is a no-op for pure LRU.
func TestLRU_OnRemove_NoOp(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string]{}
	p := New[string]().New(h)

	p.OnRemove(&testNode[string]{k: "k3"})

	if h.pushFrontCnt != 0 || h.moveToFrontCnt != 0 || h.removeCnt != 0 {
		t.Fatal("OnRemove for LRU must not touch the hooks")
	}
}
