// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package main

import (
	"github.com/gogc-project/gogc/gc"
	"github.com/gogc-project/gogc/gcalloc"
)

func newMmapBacking() (gc.OldAllocator, error) {
	return gcalloc.NewMmapArena(), nil
}
