// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcalloc provides backing allocators for a gc.Collector's
// old generation. The collector core treats the old-generation
// allocator purely as an external collaborator (gc.OldAllocator);
// this package supplies two concrete instances of that collaborator:
//
//   - MmapArena, backed directly by anonymous memory mappings via
//     golang.org/x/sys/unix, for platforms with an mmap(2) syscall.
//   - HeapArena, a portable fallback that carves payloads out of
//     ordinary Go byte slices, for platforms (or tests) that don't
//     want a raw mmap dependency.
//
// Memory handed out by either allocator is outside the Go runtime's
// own heap scanning: a value stored there must not itself hold
// ordinary Go pointers, strings, slices, maps or interfaces that
// aren't also managed by the same gc.Collector, exactly as package gc
// already requires of every managed value.
package gcalloc
