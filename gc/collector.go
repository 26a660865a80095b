// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "unsafe"

// Tunables, with reasonable production defaults.
const (
	DefaultYoungRegionBytes    = 2 << 20          // 2 MiB
	DefaultYoungMaxObjectBytes = DefaultYoungRegionBytes / 2
	initialThresholdBytes      = 12 << 10 // 12 KiB, both generations alike.
)

type config struct {
	youngRegionBytes    uintptr
	youngMaxObjectBytes uintptr
}

// Option configures a Collector at construction time.
type Option func(*config)

// WithYoungRegionBytes overrides the young generation's total
// capacity (default DefaultYoungRegionBytes).
func WithYoungRegionBytes(n uintptr) Option {
	return func(c *config) { c.youngRegionBytes = n }
}

// WithYoungMaxObjectBytes overrides the largest single object the
// young generation will accept (default half its region).
func WithYoungMaxObjectBytes(n uintptr) Option {
	return func(c *config) { c.youngMaxObjectBytes = n }
}

// Collector ties together the young and old generations, the root
// table and the trigger heuristic. It is the outward-facing object
// embedders use: Alloc/AllocWith/AllocArray to allocate, Root/Resolve
// to keep values alive across cycles, Collect/ForceCollect to reclaim.
//
// A Collector is not safe for concurrent use: it assumes a single
// mutator at a time, and nothing here synchronizes access.
type Collector struct {
	state *collectorState
	young *youngSpace
	old   *oldSpace
	roots *rootTable

	thresholdYoung int64
	thresholdOld   int64
	lastYoung      int64
	lastOld        int64
}

// New creates a Collector with the given Identity, backed by the
// given OldAllocator for its old generation. The caller must ensure
// id is not already in use by another live Collector in whatever
// scope its singleton flavor (if any) promises uniqueness over.
func New(id Identity, backing OldAllocator, opts ...Option) *Collector {
	cfg := config{
		youngRegionBytes: DefaultYoungRegionBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.youngMaxObjectBytes == 0 {
		cfg.youngMaxObjectBytes = cfg.youngRegionBytes / 2
	}
	state := &collectorState{id: id}
	return &Collector{
		state:          state,
		young:          newYoungSpace(state, cfg.youngRegionBytes, cfg.youngMaxObjectBytes),
		old:            newOldSpace(state, backing),
		roots:          newRootTable(),
		thresholdYoung: initialThresholdBytes,
		thresholdOld:   initialThresholdBytes,
	}
}

// ID returns the Collector's Identity.
func (c *Collector) ID() Identity { return c.state.id }

// Stats is a read-only snapshot of a Collector's generation sizes,
// useful for diagnostics and for demonstrating the threshold-doubling
// heuristic by hand.
type Stats struct {
	YoungBytes     int64
	OldBytes       int64
	YoungThreshold int64
	OldThreshold   int64
	LastYoungBytes int64
	LastOldBytes   int64
	LiveOldObjects int
}

// Stats returns the Collector's current generation sizes.
func (c *Collector) Stats() Stats {
	return Stats{
		YoungBytes:     c.young.allocatedBytes(),
		OldBytes:       c.old.allocatedBytes(),
		YoungThreshold: c.thresholdYoung,
		OldThreshold:   c.thresholdOld,
		LastYoungBytes: c.lastYoung,
		LastOldBytes:   c.lastOld,
		LiveOldObjects: len(c.old.objects),
	}
}

// HistogramEntry is one row of Collector.Histogram: the live old-generation
// objects of a single Go type, aggregated by byte size and count.
type HistogramEntry struct {
	Name  string
	Count int
	Bytes int64
}

// Histogram groups the old generation's live objects by Go type name,
// mirroring internal/gocore's per-type object histogram. Young
// generation objects are not included: they have no stable identity
// between collections, and are about to be promoted or reclaimed by
// the very next cycle.
func (c *Collector) Histogram() []HistogramEntry {
	byName := map[string]*HistogramEntry{}
	var order []string
	for _, h := range c.old.objects {
		name := objectTypeName(h)
		e, ok := byName[name]
		if !ok {
			e = &HistogramEntry{Name: name}
			byName[name] = e
			order = append(order, name)
		}
		e.Count++
		e.Bytes += int64(h.payloadSize())
	}
	entries := make([]HistogramEntry, len(order))
	for i, name := range order {
		entries[i] = *byName[name]
	}
	return entries
}

func objectTypeName(h *header) string {
	if h.isArray() {
		return "[]" + h.arr.Elem.Name
	}
	return h.typ.Name
}

// Alloc allocates value into the Collector, returning a managed
// pointer to the copy it holds.
func Alloc[T any](c *Collector, value T) Ptr[T] {
	return AllocWith(c, func(p *T) { *p = value })
}

// AllocWith allocates a zero value of T into the Collector and then
// calls init with a pointer to it, returning a managed pointer once
// init returns normally. If init panics, the half-built object is
// rolled back (freed if it landed in the old generation, left
// uninitialized for the next young sweep to reclaim otherwise) and
// the panic propagates.
//
// AllocWith is the entry point to use when T is expensive to move by
// value, or when construction needs to see its own payload address.
func AllocWith[T any](c *Collector, init func(*T)) Ptr[T] {
	ti := typeInfoFor[T]()
	h, isOld := c.allocRawFallback(ti, nil, 0)
	guard := newInitGuard(c, h, isOld)
	defer guard.release()

	p := (*T)(h.payload)
	init(p)
	h.updateStateBits(func(s stateBits) stateBits { return setBit(s, bitValueInitialized, true) })
	guard.defuse()
	return Ptr[T]{h: h}
}

// AllocArray allocates a managed array of n elements of type T, each
// initialized by calling init with the element's index and a pointer
// to it.
func AllocArray[T any](c *Collector, n int, init func(i int, p *T)) Array[T] {
	elem := typeInfoFor[T]()
	arr := &ArrayTypeInfo{Elem: elem}
	h, isOld := c.allocRawFallback(nil, arr, uintptr(n))
	guard := newInitGuard(c, h, isOld)
	defer guard.release()

	elemSize := elem.Layout.Size
	for i := 0; i < n; i++ {
		p := (*T)(unsafe.Add(h.payload, uintptr(i)*elemSize))
		init(i, p)
	}
	h.updateStateBits(func(s stateBits) stateBits { return setBit(s, bitValueInitialized, true) })
	guard.defuse()
	return Array[T]{h: h}
}

// allocRawFallback implements the allocation fast/slow path: try
// young first; on SizeExceedsLimit fall back to old; any remaining
// error (OutOfMemory, in either space) is fatal.
func (c *Collector) allocRawFallback(typ *TypeInfo, arr *ArrayTypeInfo, n uintptr) (h *header, isOld bool) {
	var err error
	if arr != nil {
		h, err = c.young.allocArrayRaw(c.state.id, arr, n)
	} else {
		h, err = c.young.allocRaw(c.state.id, typ)
	}
	if err == nil {
		return h, false
	}
	if err != ErrSizeExceedsLimit {
		fatalf("gc: young allocation failed: %v", err)
	}
	if arr != nil {
		h, err = c.old.allocArrayRaw(c.state.id, arr, n)
	} else {
		h, err = c.old.allocRaw(c.state.id, typ)
	}
	if err != nil {
		fatalf("gc: old allocation failed: %v", err)
	}
	return h, true
}

// promote copies a surviving young object into the old generation and
// leaves a forwarding pointer on the original header.
func (c *Collector) promote(h *header) *header {
	var newHeader *header
	var err error
	if h.isArray() {
		newHeader, err = c.old.allocArrayRaw(h.collectorID, h.arr, h.length)
	} else {
		newHeader, err = c.old.allocRaw(h.collectorID, h.typ)
	}
	if err != nil {
		// Mid-collection allocation failure cannot be recovered: the
		// heap may already be half-forwarded.
		fatalf("gc: out of memory promoting object during collection: %v", err)
	}

	newHeader.state = setBit(h.state, bitGeneration, true)
	newHeader.state = setBit(newHeader.state, bitValueInitialized, true)
	newHeader.state = setBit(newHeader.state, bitForwarded, false)
	newHeader.hasDrop = h.hasDrop

	h.updateStateBits(func(s stateBits) stateBits { return setBit(s, bitForwarded, true) })
	h.forward = newHeader

	c.young.remove(h)

	copyPayload(newHeader.payload, h.payload, h.payloadSize())
	return newHeader
}
