// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import (
	"testing"
	"unsafe"
)

func newTestYoungSpace(capacity, maxObject uintptr) *youngSpace {
	return newYoungSpace(&collectorState{id: NewIdentity()}, capacity, maxObject)
}

func TestYoungSpaceAllocRawBasic(t *testing.T) {
	y := newTestYoungSpace(256, 128)
	ti := &TypeInfo{Layout: Layout{Size: 16, Align: 8}}
	h, err := y.allocRaw(NewIdentity(), ti)
	if err != nil {
		t.Fatalf("allocRaw: %v", err)
	}
	if h.payload == nil {
		t.Fatalf("allocRaw: nil payload")
	}
	if h.generation() != Young {
		t.Fatalf("allocRaw: generation = %v, want Young", h.generation())
	}
	if y.allocatedBytes() != 16 {
		t.Fatalf("allocatedBytes: got %d, want 16", y.allocatedBytes())
	}
}

func TestYoungSpaceAllocRawOverSizeLimit(t *testing.T) {
	y := newTestYoungSpace(256, 8)
	ti := &TypeInfo{Layout: Layout{Size: 16, Align: 8}}
	_, err := y.allocRaw(NewIdentity(), ti)
	if err != ErrSizeExceedsLimit {
		t.Fatalf("allocRaw over maxObject: got %v, want ErrSizeExceedsLimit", err)
	}
}

func TestYoungSpaceAllocRawOutOfMemory(t *testing.T) {
	y := newTestYoungSpace(16, 32)
	ti := &TypeInfo{Layout: Layout{Size: 16, Align: 8}}
	if _, err := y.allocRaw(NewIdentity(), ti); err != nil {
		t.Fatalf("first allocRaw: %v", err)
	}
	_, err := y.allocRaw(NewIdentity(), ti)
	if err != ErrOutOfMemory {
		t.Fatalf("second allocRaw: got %v, want ErrOutOfMemory", err)
	}
}

func TestYoungSpaceAllocRespectsAlignment(t *testing.T) {
	y := newTestYoungSpace(256, 128)
	small := &TypeInfo{Layout: Layout{Size: 1, Align: 1}}
	big := &TypeInfo{Layout: Layout{Size: 16, Align: 16}}
	if _, err := y.allocRaw(NewIdentity(), small); err != nil {
		t.Fatalf("allocRaw(small): %v", err)
	}
	h, err := y.allocRaw(NewIdentity(), big)
	if err != nil {
		t.Fatalf("allocRaw(big): %v", err)
	}
	if uintptr(h.payload)%16 != 0 {
		t.Fatalf("big allocation is not 16-byte aligned: %p", h.payload)
	}
}

func TestYoungSpaceSweepRunsDropOnlyForWhiteInitialized(t *testing.T) {
	y := newTestYoungSpace(256, 128)
	var dropped []int
	mk := func(id int) *TypeInfo {
		return &TypeInfo{
			Layout: Layout{Size: 8, Align: 8},
			Drop:   func(unsafe.Pointer) { dropped = append(dropped, id) },
		}
	}

	// h1: White, initialized -> must be dropped.
	h1, _ := y.allocRaw(NewIdentity(), mk(1))
	h1.updateStateBits(func(s stateBits) stateBits { return setBit(s, bitValueInitialized, true) })

	// h2: White, never initialized (init panicked) -> must NOT be dropped.
	_, _ = y.allocRaw(NewIdentity(), mk(2))

	// h3: Black (survived, e.g. promoted-and-removed in a real cycle,
	// but here left in the queue to prove sweep skips Black) -> must
	// NOT be dropped.
	h3, _ := y.allocRaw(NewIdentity(), mk(3))
	h3.updateStateBits(func(s stateBits) stateBits { return setBit(s, bitValueInitialized, true) })
	h3.updateStateBits(func(s stateBits) stateBits {
		return setBit(s, bitRawMark, markToRaw(Black, y.state.markBitsInverted))
	})

	y.sweep()

	if len(dropped) != 1 || dropped[0] != 1 {
		t.Fatalf("dropped = %v, want [1]", dropped)
	}
	if y.allocatedBytes() != 0 {
		t.Fatalf("allocatedBytes after sweep: got %d, want 0 (bump pointer must reset)", y.allocatedBytes())
	}
	if len(y.objects) != 0 {
		t.Fatalf("live-object registry after sweep: got %d entries, want 0", len(y.objects))
	}
}

func TestYoungSpaceRegistersEveryAllocRegardlessOfDrop(t *testing.T) {
	y := newTestYoungSpace(256, 128)
	ti := &TypeInfo{Layout: Layout{Size: 8, Align: 8}}
	y.allocRaw(NewIdentity(), ti)
	if len(y.objects) != 1 {
		t.Fatalf("live-object registry after a no-Drop alloc: got %d entries, want 1 (the header must stay Go-reachable)", len(y.objects))
	}
}

func TestYoungSpaceRemove(t *testing.T) {
	y := newTestYoungSpace(256, 128)
	ti := &TypeInfo{Layout: Layout{Size: 8, Align: 8}, Drop: func(unsafe.Pointer) {}}
	h, _ := y.allocRaw(NewIdentity(), ti)
	if len(y.objects) != 1 {
		t.Fatalf("live-object registry: got %d entries, want 1", len(y.objects))
	}
	y.remove(h)
	if len(y.objects) != 0 {
		t.Fatalf("live-object registry after removal: got %d entries, want 0", len(y.objects))
	}
}
