// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcalloc

import (
	"sync"
	"unsafe"

	"github.com/gogc-project/gogc/gc"
)

// HeapArena is a gc.OldAllocator that carves each allocation out of its
// own ordinary Go byte slice, over-allocated to satisfy the requested
// alignment. It has no platform requirements and is the right choice
// for tests and for hosts without an mmap(2) syscall; MmapArena is the
// allocator to reach for when the old generation should live outside
// the Go heap entirely.
type HeapArena struct {
	mu      sync.Mutex
	backing map[unsafe.Pointer][]byte
}

// NewHeapArena constructs a HeapArena allocator.
func NewHeapArena() *HeapArena {
	return &HeapArena{backing: make(map[unsafe.Pointer][]byte)}
}

var _ gc.OldAllocator = (*HeapArena)(nil)

func (a *HeapArena) Alloc(layout gc.Layout) (unsafe.Pointer, error) {
	size := layout.Size
	align := layout.Align
	if align == 0 {
		align = 1
	}
	buf := make([]byte, size+align)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	aligned := (base + align - 1) &^ (align - 1)
	p := unsafe.Pointer(aligned)

	a.mu.Lock()
	a.backing[p] = buf
	a.mu.Unlock()
	return p, nil
}

func (a *HeapArena) Free(p unsafe.Pointer) {
	a.mu.Lock()
	delete(a.backing, p)
	a.mu.Unlock()
}

// Live reports how many allocations are currently outstanding, for
// diagnostics.
func (a *HeapArena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.backing)
}
