// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gctrace derives a gc.TraceFunc for a managed type by
// reflection, so a managed struct's TraceGC method can delegate to it
// instead of naming every managed field by hand. The type still
// implements gc.Tracer itself: package gc only traces values whose
// pointer type has a TraceGC method. It walks a type's fields the same way
// internal/gocore's walkRootTypePtrs walks a root's static type
// description -- recursing through structs field-by-field and arrays
// element-by-element -- except the leaves it looks for are fields
// whose address implements gc.SelfTracer (a *gc.Ptr[T] or
// *gc.Array[T]) rather than raw pointer words.
//
// Func builds and caches one such walk plan per type, so most callers
// only pay the reflection cost once per type, not once per value:
//
//	type Node struct {
//		Value int
//		Next  gc.Ptr[Node]
//	}
//
//	var nodeTrace = gctrace.Func[Node]()
//
//	func (n *Node) TraceGC(tc *gc.TraceContext) { nodeTrace(unsafe.Pointer(n), tc) }
//
// Func only ever discovers fields that are themselves gc.Ptr/gc.Array
// values (or structs/arrays that contain them); it has no way to find
// a managed pointer hidden behind a plain Go interface or behind a
// type that implements gc.Tracer by hand. Mixing the two strategies on
// the same type is fine -- most programs will still write TraceGC by
// hand for a handful of performance-sensitive types and reach for
// gctrace.Func for the rest.
package gctrace
