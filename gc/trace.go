// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "unsafe"

// TraceContext is the transient object threaded through a collection
// cycle. It is constructed once per cycle and uniquely borrows the
// Collector for its duration: user TraceGC implementations may only
// call TraceGCPtrMut/TraceGCArrayMut on it, never Alloc, Root or
// Collect (the collector's spaces and root table are mid-mutation).
//
// A manual recursion-depth stack-growth guard (growing a fresh
// segment as recursion approaches the end of the native stack) has no
// analogue here: every goroutine's stack already grows on demand
// under the Go scheduler. TraceContext therefore recurses directly
// through traceHeader/dispatch with no depth bookkeeping of its own.
type TraceContext struct {
	c *Collector
}

func newTraceContext(c *Collector) *TraceContext {
	return &TraceContext{c: c}
}

// traceHeader resolves h to the header that should be stored back
// into the slot being traced, promoting and tracing h's children the
// first time it is reached this cycle.
func (tc *TraceContext) traceHeader(h *header) *header {
	c := tc.c
	if h.collectorID != c.state.id {
		fatalf("gc: identity mismatch tracing header owned by %v with collector %v", h.collectorID, c.state.id)
	}
	if h.forwarded() {
		return h.forward
	}
	if c.state.resolve(h) == Black {
		return h
	}
	return tc.fallbackCollect(h)
}

// fallbackCollect is the cold path of traceHeader: h is White
// and unforwarded, so it must be marked, possibly promoted, and have
// its children traced.
func (tc *TraceContext) fallbackCollect(h *header) *header {
	c := tc.c
	if !h.valueInitialized() {
		fatalf("gc: tracing an object whose value was never initialized")
	}

	// Flip mark to Black on the original header. This is the
	// White->Black transition that gates "visited": nothing below can
	// re-enter fallbackCollect for the same header in this cycle.
	c.state.blacken(h)

	prevGeneration := h.generation()
	if prevGeneration == Young {
		newHeader := c.promote(h)
		tc.dispatch(newHeader)
		return newHeader
	}

	// Already Old: continue tracing h in place, no copy.
	tc.dispatch(h)
	return h
}

// dispatch invokes h's trace function (once for a regular object,
// once per element for an array).
func (tc *TraceContext) dispatch(h *header) {
	if h.isArray() {
		elem := h.arr.Elem
		if elem.Trace == nil {
			return
		}
		elemSize := elem.Layout.Size
		for i := uintptr(0); i < h.length; i++ {
			elem.Trace(unsafe.Add(h.payload, i*elemSize), tc)
		}
		return
	}
	if h.typ.Trace != nil {
		h.typ.Trace(h.payload, tc)
	}
}
