// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gctrace

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/gogc-project/gogc/gc"
)

var selfTracerType = reflect.TypeFor[gc.SelfTracer]()

// edge is one managed-pointer field found while walking a type: it
// sits at byte offset off within the top-level value and has concrete
// type typ (a gc.Ptr[T] or gc.Array[T] instantiation), so
// reflect.NewAt can reconstruct an addressable *typ at trace time and
// recover its gc.SelfTracer method set.
type edge struct {
	off uintptr
	typ reflect.Type
}

var planCache sync.Map // map[reflect.Type][]edge

func planFor(t reflect.Type) []edge {
	if v, ok := planCache.Load(t); ok {
		return v.([]edge)
	}
	plan := walk(t, 0)
	actual, _ := planCache.LoadOrStore(t, plan)
	return actual.([]edge)
}

// walk finds every managed-pointer field reachable from a value of
// type t stored at relative offset base, recursing through structs
// and arrays exactly as walkRootTypePtrs recurses through a type
// description's Kind. Maps, slices, interfaces and plain Go pointers
// are never descended into: none of
// them can legally hold a collector-managed value per the package gc
// contract, so there is nothing for Func to find inside one.
func walk(t reflect.Type, base uintptr) []edge {
	if reflect.PointerTo(t).Implements(selfTracerType) {
		return []edge{{off: base, typ: t}}
	}
	switch t.Kind() {
	case reflect.Struct:
		var edges []edge
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			edges = append(edges, walk(f.Type, base+f.Offset)...)
		}
		return edges
	case reflect.Array:
		elem := t.Elem()
		elemSize := elem.Size()
		var edges []edge
		for i := 0; i < t.Len(); i++ {
			edges = append(edges, walk(elem, base+uintptr(i)*elemSize)...)
		}
		return edges
	default:
		return nil
	}
}

// Func returns a gc.TraceFunc for T, building and caching its field
// plan on first use. The returned function is safe to store directly
// in a gc.TypeInfo's Trace field.
func Func[T any]() gc.TraceFunc {
	plan := planFor(reflect.TypeFor[T]())
	if len(plan) == 0 {
		return nil
	}
	return func(payload unsafe.Pointer, tc *gc.TraceContext) {
		for _, e := range plan {
			addr := unsafe.Add(payload, e.off)
			reflect.NewAt(e.typ, addr).Interface().(gc.SelfTracer).TraceGCSelf(tc)
		}
	}
}
