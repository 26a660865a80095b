// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc_test

import (
	"testing"

	"github.com/gogc-project/gogc/gc"
	"github.com/gogc-project/gogc/gcalloc"
)

type link struct {
	value   int
	dropped *[]int
	next    gc.Ptr[link]
}

func (l *link) TraceGC(tc *gc.TraceContext) { gc.TraceGCPtrMut(tc, &l.next) }
func (l *link) DropGC() {
	if l.dropped != nil {
		*l.dropped = append(*l.dropped, l.value)
	}
}

func newTestCollector(t *testing.T, opts ...gc.Option) *gc.Collector {
	t.Helper()
	return gc.New(gc.NewIdentity(), gcalloc.NewHeapArena(), opts...)
}

// S1: a linear chain kept alive by one root, with one unrooted tail
// segment that should be dropped exactly once.
func TestLinearChainPartialDrop(t *testing.T) {
	c := newTestCollector(t)
	var dropped []int

	tail := gc.AllocWith(c, func(l *link) { l.value = 99; l.dropped = &dropped })
	// tail is never linked to anything rooted and never rooted itself.
	_ = tail

	second := gc.AllocWith(c, func(l *link) { l.value = 2; l.dropped = &dropped })
	kept := gc.AllocWith(c, func(l *link) { l.value = 1; l.dropped = &dropped; l.next = second })
	h := gc.Root(c, kept)
	defer h.Release()

	c.ForceCollect()

	if len(dropped) != 1 || dropped[0] != 99 {
		t.Fatalf("dropped = %v, want [99]", dropped)
	}
	if h.Resolve(c).Value().value != 1 {
		t.Fatalf("kept link's value did not survive collection")
	}
	if h.Resolve(c).Value().next.Value().value != 2 {
		t.Fatalf("second link of the rooted chain did not survive collection")
	}
}

// S2: a two-node cycle, reachable only through a root on one member.
// Both nodes must survive; breaking the root must reclaim both, and
// only once apiece, even though each still points at the other.
func TestCycleSurvivesThenCollectsOnce(t *testing.T) {
	c := newTestCollector(t)
	var dropped []int

	a := gc.AllocWith(c, func(l *link) { l.value = 1 })
	b := gc.AllocWith(c, func(l *link) {
		l.value = 2
		l.dropped = &dropped
		l.next = a
	})
	a.Value().next = b
	a.Value().dropped = &dropped

	h := gc.Root(c, a)
	c.ForceCollect()

	if len(dropped) != 0 {
		t.Fatalf("dropped before root release: got %v, want none", dropped)
	}

	resolved := h.Resolve(c)
	if resolved.Value().next.Value().next.Value().value != resolved.Value().value {
		t.Fatalf("cycle did not survive promotion intact")
	}

	h.Release()
	c.ForceCollect()

	if len(dropped) != 2 {
		t.Fatalf("dropped after root release: got %v, want 2 entries", dropped)
	}
	seen := map[int]int{}
	for _, v := range dropped {
		seen[v]++
	}
	if seen[1] != 1 || seen[2] != 1 {
		t.Fatalf("dropped = %v, want exactly one drop each of 1 and 2", dropped)
	}
}

// S3: an object whose size exceeds YoungMaxObjectBytes must be routed
// directly to the old generation, never to young.
func TestLargeObjectRoutesToOldGeneration(t *testing.T) {
	c := newTestCollector(t, gc.WithYoungRegionBytes(256), gc.WithYoungMaxObjectBytes(32))
	type big struct {
		bytes [128]byte
	}
	p := gc.Alloc(c, big{})
	stats := c.Stats()
	if stats.OldBytes == 0 {
		t.Fatalf("large object was not routed to the old generation: %+v", stats)
	}
	if stats.YoungBytes != 0 {
		t.Fatalf("large object unexpectedly touched the young generation: %+v", stats)
	}
	_ = p
}

// S4: a panic mid-AllocWith must roll the half-built object back
// without ever invoking its Drop, and must not corrupt the space for
// subsequent allocations.
func TestInitPanicRollsBackWithoutDrop(t *testing.T) {
	c := newTestCollector(t)
	var dropped []int

	func() {
		defer func() { recover() }()
		gc.AllocWith(c, func(l *link) {
			l.value = 7
			l.dropped = &dropped
			panic("boom")
		})
	}()

	c.ForceCollect()
	if len(dropped) != 0 {
		t.Fatalf("dropped = %v, want none: drop must never fire on a never-initialized value", dropped)
	}

	// The space must still be usable afterward.
	p := gc.AllocWith(c, func(l *link) { l.value = 1 })
	if p.Value().value != 1 {
		t.Fatalf("allocation after a rolled-back init failed")
	}
}

// S5: releasing a root between two collections must reclaim on the
// very next cycle, not before.
func TestRootReleaseBetweenCycles(t *testing.T) {
	c := newTestCollector(t)
	var dropped []int
	p := gc.AllocWith(c, func(l *link) { l.value = 5; l.dropped = &dropped })
	h := gc.Root(c, p)

	c.ForceCollect()
	if len(dropped) != 0 {
		t.Fatalf("dropped too early: %v", dropped)
	}

	h.Release()
	c.ForceCollect()
	if len(dropped) != 1 || dropped[0] != 5 {
		t.Fatalf("dropped after release+collect: got %v, want [5]", dropped)
	}
}

// linkArray holds a managed array so it can be rooted: Root takes a
// Ptr, so an Array is kept alive through a rooted holder.
type linkArray struct {
	items gc.Array[link]
}

func (a *linkArray) TraceGC(tc *gc.TraceContext) { gc.TraceGCArrayMut(tc, &a.items) }

// S6: AllocArray'd elements survive promotion as a unit, and Index
// still addresses the post-promotion storage.
func TestArrayPromotion(t *testing.T) {
	c := newTestCollector(t)
	arr := gc.AllocArray(c, 4, func(i int, l *link) { l.value = i })
	holder := gc.Alloc(c, linkArray{items: arr})
	h := gc.Root(c, holder)
	defer h.Release()

	c.ForceCollect()

	resolved := h.Resolve(c).Value().items
	if resolved.Len() != 4 {
		t.Fatalf("Len() after promotion: got %d, want 4", resolved.Len())
	}
	for i := 0; i < 4; i++ {
		if got := resolved.Index(i).value; got != i {
			t.Fatalf("element %d after promotion: got %d, want %d", i, got, i)
		}
	}
}

// P4/forwarding stability: a Ptr traced during a cycle resolves to the
// object's new (promoted) location, and a second trace in a later
// cycle is a no-op address-wise (the object is already Old).
func TestForwardingStableAcrossCycles(t *testing.T) {
	c := newTestCollector(t)
	p := gc.AllocWith(c, func(l *link) { l.value = 1 })
	h := gc.Root(c, p)
	defer h.Release()

	c.ForceCollect()
	afterFirst := h.Resolve(c)
	c.ForceCollect()
	afterSecond := h.Resolve(c)

	if afterFirst.Value() != afterSecond.Value() {
		t.Fatalf("an already-Old object moved across a second collection")
	}
}

// P8: the threshold-doubling heuristic floors at the initial
// threshold and otherwise doubles the observed size.
func TestThresholdDoublingFloorsAndDoubles(t *testing.T) {
	c := newTestCollector(t, gc.WithYoungRegionBytes(1<<20), gc.WithYoungMaxObjectBytes(1<<19))
	before := c.Stats()
	c.ForceCollect()
	after := c.Stats()
	if after.OldThreshold != before.OldThreshold {
		t.Fatalf("empty collector's threshold should floor at the initial value: before=%d after=%d",
			before.OldThreshold, after.OldThreshold)
	}

	type padded struct {
		_ [5000]byte
		n gc.Ptr[link]
	}
	p := gc.Alloc(c, padded{})
	h := gc.Root(c, p)
	defer h.Release()
	c.ForceCollect()
	grown := c.Stats()
	if grown.OldThreshold < 2*grown.LastOldBytes {
		t.Fatalf("threshold did not double the observed old-generation size: last=%d threshold=%d",
			grown.LastOldBytes, grown.OldThreshold)
	}
}

// P9/idempotence: calling ForceCollect with nothing new allocated does
// not perturb stats beyond sizes already settled at zero.
func TestForceCollectIdempotentOnEmptyHeap(t *testing.T) {
	c := newTestCollector(t)
	c.ForceCollect()
	first := c.Stats()
	c.ForceCollect()
	second := c.Stats()
	if first != second {
		t.Fatalf("repeated ForceCollect on an empty heap changed stats: %+v -> %+v", first, second)
	}
}

func TestIdentityMismatchTracingPanics(t *testing.T) {
	c1 := newTestCollector(t)
	c2 := newTestCollector(t)
	p := gc.Alloc(c1, 1)
	h := gc.Root(c1, p)
	defer h.Release()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic forcing a collection on c2 with a handle rooted on c1")
		}
	}()
	// Roots belong to whichever Collector they were created on; force
	// a cross-wired trace by rooting p (owned by c1) into c2's table.
	gc.Root(c2, p)
	c2.ForceCollect()
}
