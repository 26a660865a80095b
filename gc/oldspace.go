// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "unsafe"

// OldAllocator is the backing free-store the old generation uses for
// individually sized, individually freeable, stable-address
// allocations. It is an external collaborator kept outside the
// collector core's scope, consumed only through this interface.
// Package gcalloc provides two concrete implementations (an
// mmap-backed arena and a portable fallback).
type OldAllocator interface {
	// Alloc returns size bytes of zeroed memory aligned to layout's
	// alignment, or a non-nil error if it cannot (the old generation
	// reports any such error as ErrOutOfMemory).
	Alloc(layout Layout) (unsafe.Pointer, error)
	// Free releases memory previously returned by Alloc. It is
	// called at most once per successful Alloc.
	Free(p unsafe.Pointer)
}

// oldSpace is a mark-region of individually allocated objects backed
// by an OldAllocator. It tracks allocatedBytes exactly as the sum of
// the overall layouts of its live allocations, and keeps its own copy
// of the mark polarity so sweep never has to dereference the full
// Collector for each object it visits.
type oldSpace struct {
	state        *collectorState
	backing      OldAllocator
	objects      []*header
	allocated    int64
	markInverted bool
}

func newOldSpace(state *collectorState, backing OldAllocator) *oldSpace {
	return &oldSpace{state: state, backing: backing}
}

// syncPolarity copies the collector's current mark polarity into the
// space's own cached copy. Called at the start of every sweep.
func (o *oldSpace) syncPolarity() {
	o.markInverted = o.state.markBitsInverted
}

// allocRaw allocates a header+payload pair for a regular object of
// type typ, with generation=Old, mark=White, valueInitialized=false.
func (o *oldSpace) allocRaw(id Identity, typ *TypeInfo) (*header, error) {
	return o.allocCommon(id, typ, nil, 0)
}

// allocArrayRaw allocates a header+payload pair for an array of n
// elements of the type described by arr.
func (o *oldSpace) allocArrayRaw(id Identity, arr *ArrayTypeInfo, n uintptr) (*header, error) {
	return o.allocCommon(id, nil, arr, n)
}

func (o *oldSpace) allocCommon(id Identity, typ *TypeInfo, arr *ArrayTypeInfo, n uintptr) (*header, error) {
	var layout Layout
	if arr != nil {
		layout = arr.layout(n)
	} else {
		layout = typ.Layout
	}
	p, err := o.backing.Alloc(layout)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	h := &header{
		collectorID: id,
		typ:         typ,
		arr:         arr,
		length:      n,
		payload:     p,
	}
	h.state = setBit(h.state, bitGeneration, true) // Old
	h.state = setBit(h.state, bitRawMark, markToRaw(White, o.state.markBitsInverted))
	if arr != nil {
		h.state = setBit(h.state, bitArray, true)
		h.hasDrop = arr.Elem.Drop != nil
	} else {
		h.hasDrop = typ.Drop != nil
	}
	o.objects = append(o.objects, h)
	o.allocated += int64(layout.Size)
	return h, nil
}

// destroyUninitObject frees the allocation behind h. It is only ever
// called by the initialization-failure guard, and only while
// valueInitialized is still false.
func (o *oldSpace) destroyUninitObject(h *header) {
	if h.valueInitialized() {
		panic("gc: destroyUninitObject called on an initialized object")
	}
	o.remove(h)
	o.backing.Free(h.payload)
}

func (o *oldSpace) remove(h *header) {
	for i, obj := range o.objects {
		if obj == h {
			last := len(o.objects) - 1
			o.objects[i] = o.objects[last]
			o.objects[last] = nil
			o.objects = o.objects[:last]
			o.allocated -= int64(h.payloadSize())
			return
		}
	}
}

// sweep visits every live object exactly once. White objects are
// dropped (if they need drop) and freed; Black objects are retained,
// to be turned White again by the next polarity flip. No
// White-to-Black transition happens here.
func (o *oldSpace) sweep() {
	o.syncPolarity()
	live := o.objects[:0]
	for _, h := range o.objects {
		mark := resolveMark(h.rawMark(), o.markInverted)
		if mark == White {
			if h.hasDrop && h.valueInitialized() {
				runDrop(h)
			}
			o.backing.Free(h.payload)
			o.allocated -= int64(h.payloadSize())
			continue
		}
		live = append(live, h)
	}
	o.objects = live
}

func runDrop(h *header) {
	if h.isArray() {
		drop := h.arr.Elem.Drop
		if drop == nil {
			return
		}
		elemSize := h.arr.Elem.Layout.Size
		for i := uintptr(0); i < h.length; i++ {
			drop(unsafe.Add(h.payload, i*elemSize))
		}
		return
	}
	if h.typ.Drop != nil {
		h.typ.Drop(h.payload)
	}
}

func (o *oldSpace) allocatedBytes() int64 { return o.allocated }
