// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package gcalloc

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/gogc-project/gogc/gc"
)

// MmapArena is a gc.OldAllocator that carves each allocation out of its
// own anonymous memory mapping, rounded up to the system page size.
// This trades page-granularity waste for the simplest possible
// correct implementation of gc.OldAllocator: Alloc returns a stable
// address that Free can release with no bookkeeping beyond "how big
// was this mapping."
//
// A MmapArena is safe for concurrent use, though gc.Collector itself is
// not: nothing stops an embedder from sharing one MmapArena between
// several single-threaded Collectors.
type MmapArena struct {
	mu       sync.Mutex
	pageSize uintptr
	mappings map[unsafe.Pointer]uintptr
}

// NewMmapArena constructs an MmapArena allocator.
func NewMmapArena() *MmapArena {
	return &MmapArena{
		pageSize: uintptr(unix.Getpagesize()),
		mappings: make(map[unsafe.Pointer]uintptr),
	}
}

var _ gc.OldAllocator = (*MmapArena)(nil)

func (a *MmapArena) Alloc(layout gc.Layout) (unsafe.Pointer, error) {
	size := layout.Size
	if size == 0 {
		size = 1
	}
	mapLen := alignUp(size, a.pageSize)
	b, err := unix.Mmap(-1, 0, int(mapLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("gcalloc: mmap %d bytes: %w", mapLen, err)
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	a.mu.Lock()
	a.mappings[p] = mapLen
	a.mu.Unlock()
	return p, nil
}

func (a *MmapArena) Free(p unsafe.Pointer) {
	a.mu.Lock()
	n, ok := a.mappings[p]
	delete(a.mappings, p)
	a.mu.Unlock()
	if !ok {
		return
	}
	b := unsafe.Slice((*byte)(p), n)
	if err := unix.Munmap(b); err != nil {
		panic(fmt.Sprintf("gcalloc: munmap: %v", err))
	}
}

// Mappings reports how many distinct memory mappings are currently
// outstanding, for diagnostics.
func (a *MmapArena) Mappings() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mappings)
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}
