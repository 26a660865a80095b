// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "unsafe"

// Ptr is a managed pointer to a value of type T allocated by a
// Collector. Its referent may move during a collection cycle: a Ptr
// held in an ordinary Go variable (not reached through Root/Handle or
// through another managed value's TraceGC) is only guaranteed valid
// until the next call to Collect or ForceCollect. Go has no borrow
// checker to enforce this statically the way a 'gc-lifetime source
// language would; it is the embedder's responsibility, identical in
// spirit to the existing rule that the collector must not be
// re-entered while a cycle is running.
type Ptr[T any] struct {
	h *header
}

// IsNil reports whether p was never assigned a referent.
func (p Ptr[T]) IsNil() bool { return p.h == nil }

// Addr returns a value that stably identifies p's header for the
// lifetime of the process, for use as a diagnostic graph-node key
// (e.g. gcinspect's objgraph command). It is not a memory address of
// the payload and must not be dereferenced; two Ptrs compare Addr-equal
// exactly when they refer to the same header, forwarding included.
func (p Ptr[T]) Addr() uintptr {
	h := p.h
	for h != nil && h.forwarded() {
		h = h.forward
	}
	return uintptr(unsafe.Pointer(h))
}

// Value returns a pointer to the current location of p's referent.
// Calling Value is only meaningful between collections, or on a Ptr
// that has just been produced by TraceGCPtrMut or Handle.Resolve.
func (p Ptr[T]) Value() *T {
	if p.h == nil {
		return nil
	}
	return (*T)(p.h.payload)
}

// TraceGCPtrMut is the trace protocol's single operation: given the
// address of a storage slot holding a managed pointer, it replaces
// the slot's contents with the pointer's post-collection value. User
// TraceGC implementations call this once per Ptr field.
func TraceGCPtrMut[T any](tc *TraceContext, slot *Ptr[T]) {
	if slot.h == nil {
		return
	}
	slot.h = tc.traceHeader(slot.h)
}

// SelfTracer is implemented by *Ptr[T] and *Array[T] for every T. It
// lets package gctrace walk a value's fields by reflection alone,
// without generating a TraceGC method by hand: a field whose address
// satisfies SelfTracer is a managed edge and is traced in place;
// every other field is either recursed into (struct, array) or
// ignored, exactly as walkRootTypePtrs recurses through a type
// description instead of through Go's own reflect.Type switch.
type SelfTracer interface {
	TraceGCSelf(tc *TraceContext)
}

// TraceGCSelf implements SelfTracer for *Ptr[T].
func (p *Ptr[T]) TraceGCSelf(tc *TraceContext) { TraceGCPtrMut(tc, p) }

// TraceGCSelf implements SelfTracer for *Array[T].
func (a *Array[T]) TraceGCSelf(tc *TraceContext) { TraceGCArrayMut(tc, a) }

// Array is a managed pointer to a contiguous run of managed values of
// type T, allocated together by AllocArray. Its element count is
// fixed at allocation time.
type Array[T any] struct {
	h *header
}

func (a Array[T]) IsNil() bool { return a.h == nil }

// Addr returns a value that stably identifies a's header, exactly as
// Ptr.Addr does for a regular object.
func (a Array[T]) Addr() uintptr {
	h := a.h
	for h != nil && h.forwarded() {
		h = h.forward
	}
	return uintptr(unsafe.Pointer(h))
}

// Len returns the number of elements in the array.
func (a Array[T]) Len() int {
	if a.h == nil {
		return 0
	}
	return int(a.h.length)
}

// Index returns a pointer to the i'th element's current location.
func (a Array[T]) Index(i int) *T {
	elemSize := unsafe.Sizeof(*new(T))
	return (*T)(unsafe.Add(a.h.payload, uintptr(i)*elemSize))
}

// TraceGCArrayMut is the array analogue of TraceGCPtrMut: it updates
// slot to point at the array's post-collection location. Individual
// elements need no further tracing step from the caller; promotion
// already dispatches the element type's Trace function once per
// element.
func TraceGCArrayMut[T any](tc *TraceContext, slot *Array[T]) {
	if slot.h == nil {
		return
	}
	slot.h = tc.traceHeader(slot.h)
}
