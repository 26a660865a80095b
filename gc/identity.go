// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Identity is the opaque, copyable, comparable name of a Collector.
// Every header allocated by a Collector carries the Collector's
// Identity, and every trace step asserts that the header's Identity
// matches the Collector doing the tracing (see TraceContext).
//
// Identity values are process-stable for the lifetime of the
// Collector that created them.
type Identity struct {
	id uint64
}

func (id Identity) String() string {
	return fmt.Sprintf("gc#%d", id.id)
}

var nextIdentity uint64

// NewIdentity returns a fresh, process-unique Identity. Use it when
// the embedding program already holds a reference to its Collector
// and has no need to resolve one from bare Identity values alone.
func NewIdentity() Identity {
	return Identity{id: atomic.AddUint64(&nextIdentity, 1)}
}

// Singleton registries let an Identity resolve to its Collector
// without the resolver carrying an explicit reference, mirroring the
// two singleton flavors the core is allowed to assume: global (one
// Collector per Identity, process-wide) and thread-local (one
// Collector per Identity, per goroutine).
//
// These registries are bookkeeping only; nothing in the engine
// requires a singleton to exist. A Collector created with New is
// usable purely by holding onto the *Collector it returns.
var (
	globalMu       sync.Mutex
	globalSingles  = map[Identity]*Collector{}
	threadLocalMu  sync.Mutex
	threadLocalMap = map[int64]map[Identity]*Collector{}
)

// RegisterGlobal installs c as the unique global Collector for its
// Identity. It panics if another Collector is already registered
// under the same Identity: the "global" flavor promises exactly one
// collector per identity for the life of the process.
func RegisterGlobal(c *Collector) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if _, ok := globalSingles[c.ID()]; ok {
		panic("gc: identity already registered as a global singleton")
	}
	globalSingles[c.ID()] = c
}

// ResolveGlobal looks up a Collector previously registered with
// RegisterGlobal.
func ResolveGlobal(id Identity) (*Collector, bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	c, ok := globalSingles[id]
	return c, ok
}

// RegisterThreadLocal installs c as the unique Collector for its
// Identity on the calling goroutine. A thread-local singleton has no
// direct Go equivalent since goroutines aren't OS threads, so this is
// approximated per-goroutine: the caller is responsible for never
// migrating the returned Collector (or values it manages) to another
// goroutine, matching the single-threaded, non-reentrant usage a
// Collector already requires.
func RegisterThreadLocal(c *Collector) {
	gid := goroutineID()
	threadLocalMu.Lock()
	defer threadLocalMu.Unlock()
	m, ok := threadLocalMap[gid]
	if !ok {
		m = map[Identity]*Collector{}
		threadLocalMap[gid] = m
	}
	if _, ok := m[c.ID()]; ok {
		panic("gc: identity already registered as a thread-local singleton on this goroutine")
	}
	m[c.ID()] = c
}

// ResolveThreadLocal looks up a Collector previously registered with
// RegisterThreadLocal on the calling goroutine.
func ResolveThreadLocal(id Identity) (*Collector, bool) {
	gid := goroutineID()
	threadLocalMu.Lock()
	defer threadLocalMu.Unlock()
	c, ok := threadLocalMap[gid][id]
	return c, ok
}

// goroutineID extracts the numeric id the runtime prints at the head
// of a goroutine's stack trace. It is a best-effort approximation of
// thread identity used only to scope the thread-local singleton
// registry; it is never consulted by the collection algorithm itself.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		panic("gc: could not parse goroutine id: " + err.Error())
	}
	return id
}
