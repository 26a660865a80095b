// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"unsafe"

	"github.com/gogc-project/gogc/gc"
	"github.com/gogc-project/gogc/gcalloc"
	"github.com/gogc-project/gogc/gctrace"
)

// cell is the sample managed type every gcinspect subcommand
// allocates against. It is a singly-linked list node carrying a
// label and a payload array, deliberately shaped to exercise both
// TraceGCPtrMut (next) and TraceGCArrayMut (tags) in one type.
type cell struct {
	label   int
	dropped *int // bumped by DropGC, for demonstrating sweep behavior
	next    gc.Ptr[cell]
	tags    gc.Array[tag]
}

type tag struct {
	char gc.Ptr[cell] // unused edge slot kept to exercise array-of-managed-pointers tracing
	n    int
}

var cellTrace = gctrace.Func[cell]()

func (c *cell) TraceGC(tc *gc.TraceContext) { cellTrace(unsafe.Pointer(c), tc) }

func (c *cell) DropGC() {
	if c.dropped != nil {
		*c.dropped++
	}
}

// newBacking builds the old-generation allocator named by kind:
// "mmap" (the default on platforms with an mmap(2) syscall) or
// "heap" (the portable fallback).
func newBacking(kind string) (gc.OldAllocator, error) {
	switch kind {
	case "heap":
		return gcalloc.NewHeapArena(), nil
	case "mmap":
		return newMmapBacking()
	default:
		return nil, fmt.Errorf("gcinspect: unknown backing %q (want \"mmap\" or \"heap\")", kind)
	}
}

// buildChain allocates a chain of n cells, each holding a
// two-element tag array, returning a Handle to the head so the whole
// chain stays reachable across collections.
func buildChain(c *gc.Collector, n int, dropCounter *int) gc.Handle[cell] {
	var head gc.Ptr[cell]
	for i := n - 1; i >= 0; i-- {
		prev := head
		idx := i
		head = gc.AllocWith(c, func(p *cell) {
			p.label = idx
			p.dropped = dropCounter
			p.next = prev
			p.tags = gc.AllocArray(c, 2, func(j int, t *tag) {
				t.n = idx*2 + j
			})
		})
	}
	return gc.Root(c, head)
}
