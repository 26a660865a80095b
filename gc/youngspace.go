// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "unsafe"

// youngSpace is a fixed-capacity bump-allocated nursery. Payload bytes
// live in buf, addressed by raw pointer arithmetic; headers are
// ordinary Go allocations that merely point into buf. A value whose
// layout exceeds maxObject is rejected with ErrSizeExceedsLimit so
// the caller can fall back to the old generation; exhausting the
// region is ErrOutOfMemory, which is fatal: the young generation has
// no secondary fallback of its own.
type youngSpace struct {
	state     *collectorState
	buf       []byte
	offset    uintptr
	capacity  uintptr
	maxObject uintptr

	// objects is the full set of live young headers, regardless of
	// whether their type needs a destructor. Payload bytes live in buf,
	// a plain []byte that Go's own garbage collector never scans for
	// pointers; a header reachable only through a *header field stored
	// inside another object's payload is therefore invisible to the
	// host GC unless something Go-visible also references it.
	// youngSpace.objects is that something: every header allocated
	// here is appended to it and stays referenced until sweep, the
	// same way oldSpace.objects keeps old headers alive independent of
	// Drop. Promotion removes a header from this slice (remove) so
	// drop never runs on a moved-from object.
	objects []*header
}

func newYoungSpace(state *collectorState, capacity, maxObject uintptr) *youngSpace {
	return &youngSpace{
		state:     state,
		buf:       make([]byte, capacity),
		capacity:  capacity,
		maxObject: maxObject,
	}
}

func (y *youngSpace) allocRaw(id Identity, typ *TypeInfo) (*header, error) {
	return y.allocCommon(id, typ, nil, 0)
}

func (y *youngSpace) allocArrayRaw(id Identity, arr *ArrayTypeInfo, n uintptr) (*header, error) {
	return y.allocCommon(id, nil, arr, n)
}

func (y *youngSpace) allocCommon(id Identity, typ *TypeInfo, arr *ArrayTypeInfo, n uintptr) (*header, error) {
	var layout Layout
	if arr != nil {
		layout = arr.layout(n)
	} else {
		layout = typ.Layout
	}
	if layout.Size > y.maxObject {
		return nil, ErrSizeExceedsLimit
	}
	align := layout.Align
	if align == 0 {
		align = 1
	}
	aligned := alignUp(y.offset, align)
	if aligned+layout.Size > y.capacity {
		return nil, ErrOutOfMemory
	}

	clear(y.buf[aligned : aligned+layout.Size])
	p := unsafe.Add(unsafe.Pointer(unsafe.SliceData(y.buf)), aligned)
	y.offset = aligned + layout.Size

	h := &header{
		collectorID: id,
		typ:         typ,
		arr:         arr,
		length:      n,
		payload:     p,
	}
	h.state = setBit(h.state, bitRawMark, markToRaw(White, y.state.markBitsInverted))
	if arr != nil {
		h.state = setBit(h.state, bitArray, true)
		h.hasDrop = arr.Elem.Drop != nil
	} else {
		h.hasDrop = typ.Drop != nil
	}
	y.objects = append(y.objects, h)
	return h, nil
}

// remove drops h from the live-object registry.
// Called when h is promoted, so a moved-from young header is never
// dropped and is no longer kept reachable on h's behalf (the new old
// generation header returned by promote takes over that role via
// oldSpace.objects).
func (y *youngSpace) remove(h *header) {
	for i, obj := range y.objects {
		if obj == h {
			last := len(y.objects) - 1
			y.objects[i] = y.objects[last]
			y.objects[last] = nil
			y.objects = y.objects[:last]
			return
		}
	}
}

// sweep reclaims the whole region: anything still in the live-object
// registry was never promoted, so if it's White (unreached this
// cycle) and needs a destructor, its drop function runs. The bump
// pointer then resets to the start of buf and the registry is
// cleared. Promoted headers are never in the registry by the time
// sweep runs, so they are never dropped here.
func (y *youngSpace) sweep() {
	for _, h := range y.objects {
		mark := resolveMark(h.rawMark(), y.state.markBitsInverted)
		if mark == White && h.valueInitialized() && h.hasDrop {
			runDrop(h)
		}
	}
	y.offset = 0
	y.objects = y.objects[:0]
}

func (y *youngSpace) allocatedBytes() int64 { return int64(y.offset) }
