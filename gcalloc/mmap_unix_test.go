// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package gcalloc_test

import (
	"testing"
	"unsafe"

	"github.com/gogc-project/gogc/gc"
	"github.com/gogc-project/gogc/gcalloc"
)

func TestMmapArenaAllocZeroed(t *testing.T) {
	a := gcalloc.NewMmapArena()
	p, err := a.Alloc(gc.Layout{Size: 256, Align: 8})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	defer a.Free(p)
	b := unsafe.Slice((*byte)(p), 256)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d of fresh mapping: got %d, want 0", i, v)
		}
	}
}

func TestMmapArenaFreeReducesMappingCount(t *testing.T) {
	a := gcalloc.NewMmapArena()
	p1, err := a.Alloc(gc.Layout{Size: 16, Align: 8})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	p2, err := a.Alloc(gc.Layout{Size: 16, Align: 8})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if got := a.Mappings(); got != 2 {
		t.Fatalf("Mappings() after two allocs: got %d, want 2", got)
	}
	a.Free(p1)
	if got := a.Mappings(); got != 1 {
		t.Fatalf("Mappings() after one free: got %d, want 1", got)
	}
	a.Free(p2)
	if got := a.Mappings(); got != 0 {
		t.Fatalf("Mappings() after all freed: got %d, want 0", got)
	}
}

func TestMmapArenaZeroSizeAllocationSucceeds(t *testing.T) {
	a := gcalloc.NewMmapArena()
	p, err := a.Alloc(gc.Layout{Size: 0, Align: 1})
	if err != nil {
		t.Fatalf("Alloc(size=0): %v", err)
	}
	a.Free(p)
}

func TestMmapArenaImplementsOldAllocator(t *testing.T) {
	var _ gc.OldAllocator = gcalloc.NewMmapArena()
}
