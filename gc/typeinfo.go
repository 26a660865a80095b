// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import (
	"reflect"
	"sync"
	"unsafe"
)

// Layout describes the size and alignment of a value managed by a
// Collector. Unlike a hand-rolled allocator, this engine never
// computes a combined header+payload offset from Layout: payload
// placement is delegated to the young bump arena or to an
// OldAllocator, both of which honor Align directly. Layout exists so
// the engine can account for bytes (young max-object-size routing,
// allocated-byte statistics) without depending on the concrete Go
// type at every call site.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// TraceFunc is invoked once per managed value during a collection
// cycle, on the value's (possibly just-promoted) payload. It must
// call TraceGCPtrMut on every field of the value that holds a managed
// pointer, and TraceGCArrayMut on every field that holds a managed
// array.
type TraceFunc func(payload unsafe.Pointer, tc *TraceContext)

// DropFunc is invoked on a value's payload when that value is
// reclaimed by sweep. It is never invoked on the young copy a
// promotion moves from, nor on a value that survives the cycle being
// swept.
type DropFunc func(payload unsafe.Pointer)

// TypeInfo is the static, shared description of a regular (non-array)
// managed type. The presence of Drop is the single source of truth
// for whether a value needs destruction; see header.hasDrop for the
// per-object fast-path cache of that fact.
type TypeInfo struct {
	Layout Layout
	Trace  TraceFunc
	Drop   DropFunc

	// Name is the Go type's reflect.Type.String(), filled in by
	// typeInfoFor for diagnostics (Collector.Histogram). It plays no
	// part in allocation, tracing or dropping.
	Name string
}

// ArrayTypeInfo is the static description of a managed array type: a
// contiguous run of Elem values.
type ArrayTypeInfo struct {
	Elem *TypeInfo
}

// layout computes the overall layout of an array of n elements.
func (a *ArrayTypeInfo) layout(n uintptr) Layout {
	return Layout{
		Size:  a.Elem.Layout.Size * n,
		Align: a.Elem.Layout.Align,
	}
}

// Tracer is implemented by managed types that hold managed pointers
// or managed arrays. TraceGC must call TraceGCPtrMut on every managed
// pointer field and TraceGCArrayMut on every managed array field (or
// the field's own TraceGCSelf, which does the same).
//
// A type with no managed fields need not implement Tracer; its
// TypeInfo.Trace will simply be nil and tracing stops at the value.
type Tracer interface {
	TraceGC(tc *TraceContext)
}

// Dropper is implemented by managed types that need cleanup when
// reclaimed. It runs during sweep, exactly once, for a value that is
// swept white. A young value that is promoted is not dropped when it
// moves; its old-generation copy is dropped if a later cycle sweeps it
// white.
type Dropper interface {
	DropGC()
}

var typeInfoCache sync.Map // map[reflect.Type]*TypeInfo

// typeInfoFor returns the shared TypeInfo for T, building and caching
// it on first use. Building a TypeInfo inspects T's zero value for
// the Tracer/Dropper interfaces once; the resulting closures are
// reused for every value of type T for the life of the process.
func typeInfoFor[T any]() *TypeInfo {
	rt := reflect.TypeFor[T]()
	if v, ok := typeInfoCache.Load(rt); ok {
		return v.(*TypeInfo)
	}
	ti := buildTypeInfo[T](rt)
	actual, _ := typeInfoCache.LoadOrStore(rt, ti)
	return actual.(*TypeInfo)
}

func buildTypeInfo[T any](rt reflect.Type) *TypeInfo {
	var zero T
	ti := &TypeInfo{
		Layout: Layout{
			Size:  unsafe.Sizeof(zero),
			Align: unsafe.Alignof(zero),
		},
		Name: rt.String(),
	}
	if _, ok := any(&zero).(Tracer); ok {
		ti.Trace = func(payload unsafe.Pointer, tc *TraceContext) {
			any((*T)(payload)).(Tracer).TraceGC(tc)
		}
	}
	if _, ok := any(&zero).(Dropper); ok {
		ti.Drop = func(payload unsafe.Pointer) {
			any((*T)(payload)).(Dropper).DropGC()
		}
	}
	return ti
}

// copyPayload copies n bytes of payload from src to dst. It is used
// only by promotion; it is untyped because promotion never needs to
// interpret the bytes it moves, only relocate them.
func copyPayload(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}
