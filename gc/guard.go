// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

// initGuard rolls back a half-built object on any non-local exit: it
// is installed right after a header is allocated but before its value
// is initialized, so a panic unwinding out of the init closure undoes
// the allocation before valueInitialized ever becomes true.
//
// Go has no destructors, so the scoped-release pattern is realized
// with defer: callers always write
//
//	guard := newInitGuard(c, h, isOld)
//	defer guard.release()
//	... initialize h's payload ...
//	guard.defuse()
//
// so release runs unconditionally on every return path, including a
// panicking one, and does nothing once defuse has run.
type initGuard struct {
	c      *Collector
	h      *header
	isOld  bool
	active bool
}

func newInitGuard(c *Collector, h *header, isOld bool) *initGuard {
	return &initGuard{c: c, h: h, isOld: isOld, active: true}
}

// defuse marks the guard as no longer needed: the value finished
// initializing normally.
func (g *initGuard) defuse() { g.active = false }

// release performs the rollback if the guard was never defused. It is
// always safe to call, including after defuse.
func (g *initGuard) release() {
	if !g.active {
		return
	}
	g.active = false
	if g.h.valueInitialized() {
		panic("gc: init guard released on an already-initialized object")
	}
	if g.isOld {
		g.c.old.destroyUninitObject(g.h)
		return
	}
	// Young: nothing to do. The header stays in place with
	// valueInitialized=false; the next sweep reclaims its bytes via
	// the bump-pointer reset, and youngSpace.sweep skips the drop
	// call for uninitialized headers even if the type needs drop.
}
