package cache

import (
	"strings"
	"testing"
)

// Fuzz the insert/lookup/erase/release lifecycle under arbitrary string
// inputs. Guards against panics and checks the pin accounting
// invariants hold for any key/value.
// NOTE: key/value lengths are capped to keep fuzzing memory bounded;
// this does not weaken the invariants checked.
func FuzzCache_Lifecycle(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c := New[string, string](Options[string, string]{Capacity: 16, Shards: 1})
		t.Cleanup(func() { _ = c.Close() })

		// Insert -> Lookup must observe the value through both leases.
		ih := c.Insert(k, v)
		if ih.Value() != v {
			t.Fatalf("insert lease: want %q, got %q", v, ih.Value())
		}
		lh, ok := c.Lookup(k)
		if !ok {
			t.Fatal("lookup after insert must hit")
		}
		if lh.Value() != v {
			t.Fatalf("lookup lease: want %q, got %q", v, lh.Value())
		}

		// Overwrite: old leases keep the old value, lookup sees the new.
		c.Release(c.Insert(k, v+"!"))
		if ih.Value() != v || lh.Value() != v {
			t.Fatal("overwrite must not mutate outstanding leases")
		}
		nh, ok := c.Lookup(k)
		if !ok {
			t.Fatal("lookup after overwrite must hit")
		}
		if nh.Value() != v+"!" {
			t.Fatalf("lookup after overwrite: got %q", nh.Value())
		}
		c.Release(nh)

		// Drain the old record's leases; usage must only count live
		// records afterwards.
		c.Release(ih)
		c.Release(lh)
		if c.Usage() != 1 {
			t.Fatalf("usage=%d with one registered record", c.Usage())
		}

		// Erase -> miss -> re-insert works.
		if !c.Erase(k) {
			t.Fatal("erase must report true")
		}
		if _, ok := c.Lookup(k); ok {
			t.Fatal("key must be absent after erase")
		}
		c.Release(c.Insert(k, v))
		h, ok := c.Lookup(k)
		if !ok {
			t.Fatal("lookup after re-insert must hit")
		}
		if h.Value() != v {
			t.Fatalf("re-insert: got %q", h.Value())
		}
		c.Release(h)

		if c.Usage() < 0 || c.Len() < 0 {
			t.Fatalf("negative accounting: usage=%d len=%d", c.Usage(), c.Len())
		}
	})
}
