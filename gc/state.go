// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

// collectorState is the small sub-record shared by the spaces and
// the trace context: the collector's identity and the current
// polarity of the mark bit. It is split out of Collector so that the
// spaces and TraceContext can flip/resolve mark bits without holding
// a reference to the full Collector, which during a cycle is
// otherwise uniquely borrowed by ForceCollect's own bookkeeping
// (root table mutation, space swept in place, threshold updates).
type collectorState struct {
	id               Identity
	markBitsInverted bool
}

func (s *collectorState) resolve(h *header) Mark {
	return resolveMark(h.rawMark(), s.markBitsInverted)
}

func (s *collectorState) blacken(h *header) {
	h.updateStateBits(func(bits stateBits) stateBits {
		return setBit(bits, bitRawMark, markToRaw(Black, s.markBitsInverted))
	})
}

// flip logically un-marks every surviving object in O(1) by
// reinterpreting the same physical mark bit under the opposite
// polarity: what was Black becomes White without touching any
// header.
func (s *collectorState) flip() {
	s.markBitsInverted = !s.markBitsInverted
}
