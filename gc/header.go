// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "unsafe"

// Generation names which heap a header currently lives in.
type Generation uint8

const (
	Young Generation = iota
	Old
)

func (g Generation) String() string {
	if g == Old {
		return "Old"
	}
	return "Young"
}

// Mark is the logical color of an object under the collector's
// current mark polarity. White objects are unreached so far this
// cycle (and reclaimed if still white at sweep); Black objects have
// been reached.
type Mark uint8

const (
	White Mark = iota
	Black
)

// stateBits packs the per-header flags: forwarded, array, generation,
// bitRawMark and bitValueInitialized. The type/array-type/forward-pointer
// metadata and the array length are not folded into this bitset; they
// are instead held as separate, statically-typed header fields (see
// header below) rather than overlapped in a literal union. This costs
// a few extra bytes per header but keeps every field's type honest to
// the Go compiler and to `go vet`, instead of requiring an unsafe
// reinterpretation of the same word as three unrelated pointer types.
type stateBits uint8

const (
	bitForwarded stateBits = 1 << iota
	bitArray
	bitGeneration // 0 = Young, 1 = Old
	bitRawMark
	bitValueInitialized
)

// header is the fixed-shape per-object metadata every managed
// allocation carries. It is always a normal, GC-visible Go
// allocation: only the payload it points to is carved out of young
// bump-arena bytes or OldAllocator memory.
type header struct {
	collectorID Identity
	state       stateBits

	// typ describes a regular object's type. Nil for arrays.
	typ *TypeInfo
	// arr describes an array object's element type. Nil for regular
	// objects. length is the array's element count; it is
	// meaningless for regular objects.
	arr    *ArrayTypeInfo
	length uintptr

	// forward is valid iff bitForwarded is set: the post-promotion
	// header to redirect to. Nothing in this package reads the
	// original header's payload once it has been forwarded.
	forward *header

	// payload is the address of the value this header describes.
	// It is fixed at allocation time and never mutated afterward
	// (promotion builds an entirely new header+payload rather than
	// relocating this one), so payloadPtr below is a pure read of
	// immutable state, even though it is a stored field rather than
	// address arithmetic from the header.
	payload unsafe.Pointer

	// hasDrop caches whether this object's type has a Drop function,
	// so sweep can skip the TypeInfo/ArrayTypeInfo lookup for the
	// common case. The header's typ/arr pointer remains the single
	// source of truth (TypeInfo.Drop / ArrayTypeInfo.Elem.Drop); this
	// is a plain bool derived from it, not an independent cache.
	hasDrop bool
}

// payloadPtr returns the address of h's payload. It is a pure
// function of h's already-fixed state: it performs no computation
// depending on anything that changes after allocation.
func payloadPtr(h *header) unsafe.Pointer {
	return h.payload
}

func (h *header) forwarded() bool           { return h.state&bitForwarded != 0 }
func (h *header) isArray() bool             { return h.state&bitArray != 0 }
func (h *header) valueInitialized() bool    { return h.state&bitValueInitialized != 0 }
func (h *header) generation() Generation {
	if h.state&bitGeneration != 0 {
		return Old
	}
	return Young
}

func (h *header) rawMark() bool { return h.state&bitRawMark != 0 }

// resolveMark maps the header's raw mark bit to White/Black using the
// collector's current polarity.
func resolveMark(raw, inverted bool) Mark {
	if raw == inverted {
		return White
	}
	return Black
}

// markToRaw is resolveMark's inverse: the raw bit value that encodes
// mark m under the given polarity.
func markToRaw(m Mark, inverted bool) bool {
	if m == White {
		return inverted
	}
	return !inverted
}

// updateStateBits applies f to h's state bits. It is non-atomic:
// single-mutator access only, any bit transformation is legal.
func (h *header) updateStateBits(f func(stateBits) stateBits) {
	h.state = f(h.state)
}

func setBit(s stateBits, bit stateBits, v bool) stateBits {
	if v {
		return s | bit
	}
	return s &^ bit
}

// payloadSize returns the size in bytes of h's payload, derived from
// its static type info.
func (h *header) payloadSize() uintptr {
	if h.isArray() {
		return h.arr.layout(h.length).Size
	}
	return h.typ.Layout.Size
}

// payloadAlign returns the required alignment of h's payload.
func (h *header) payloadAlign() uintptr {
	if h.isArray() {
		return h.arr.Elem.Layout.Align
	}
	return h.typ.Layout.Align
}
