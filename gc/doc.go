// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gc is an embeddable generational, copying, tracing garbage
// collector. A program creates one or more independent Collectors,
// each with its own young (nursery) and old generation, allocates
// managed values into a Collector with Alloc or AllocArray, keeps
// long-lived values reachable with Root, and calls Collect (or
// ForceCollect) to reclaim unreachable memory.
//
// Managed values participate in tracing by implementing Tracer, and
// may optionally implement Dropper to run cleanup code when they are
// reclaimed. A value managed by a Collector must not hold ordinary Go
// pointers, strings, slices, maps or interfaces that are not also
// managed by the same Collector: such fields live in memory the Go
// runtime does not scan (see gcalloc), so Go's own garbage collector
// cannot see through them. Reference other managed values with Ptr or
// Array fields and trace them in TraceGC instead.
package gc
