// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "testing"

func TestRootTablePruneRemovesZeroStrong(t *testing.T) {
	rt := newRootTable()
	alive := &rootSlot{h: &header{typ: &TypeInfo{}}, strong: 1}
	dead := &rootSlot{h: &header{}, strong: 0}
	rt.add(alive)
	rt.add(dead)

	// alive is an initialized Old object with no trace function, so
	// tracing it marks it in place and never needs the (absent) spaces.
	alive.h.updateStateBits(func(s stateBits) stateBits { return setBit(s, bitValueInitialized, true) })
	alive.h.updateStateBits(func(s stateBits) stateBits { return setBit(s, bitGeneration, true) })

	c := &Collector{state: &collectorState{id: NewIdentity()}}
	alive.h.collectorID = c.state.id
	tc := newTraceContext(c)

	rt.pruneAndTrace(tc)

	if rt.len() != 1 {
		t.Fatalf("rootTable.len() after prune: got %d, want 1", rt.len())
	}
	if rt.slots[0] != alive {
		t.Fatalf("surviving slot is not the one with strong>0")
	}
}

func TestHandleCloneAndRelease(t *testing.T) {
	c := New(NewIdentity(), &fakeOldAllocator{})
	p := Alloc(c, 42)
	h1 := Root(c, p)
	h2 := h1.Clone()

	if h1.slot.strong != 2 {
		t.Fatalf("strong count after Clone: got %d, want 2", h1.slot.strong)
	}
	h1.Release()
	if h1.slot.strong != 1 {
		t.Fatalf("strong count after one Release: got %d, want 1", h1.slot.strong)
	}
	h2.Release()
	if h1.slot.strong != 0 {
		t.Fatalf("strong count after both Released: got %d, want 0", h1.slot.strong)
	}
}

func TestRootTableAssertNoneForwardedPanicsOnForwardedRoot(t *testing.T) {
	rt := newRootTable()
	h := &header{}
	h.state = setBit(h.state, bitForwarded, true)
	rt.add(&rootSlot{h: h, strong: 1})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from a root left pointing at a forwarded header")
		}
	}()
	rt.assertNoneForwarded()
}

func TestForceCollectRootsNeverForwardedAfterCycle(t *testing.T) {
	c := New(NewIdentity(), &fakeOldAllocator{})
	p := Alloc(c, 42)
	h := Root(c, p)
	defer h.Release()

	c.ForceCollect()
	c.ForceCollect()
}

func TestHandleResolveMismatchedCollectorPanics(t *testing.T) {
	c1 := New(NewIdentity(), &fakeOldAllocator{})
	c2 := New(NewIdentity(), &fakeOldAllocator{})
	p := Alloc(c1, 1)
	h := Root(c1, p)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic resolving a Handle against the wrong Collector")
		}
	}()
	h.Resolve(c2)
}
