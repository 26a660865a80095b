// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package main

import (
	"fmt"

	"github.com/gogc-project/gogc/gc"
)

func newMmapBacking() (gc.OldAllocator, error) {
	return nil, fmt.Errorf("gcinspect: mmap backing is not available on this platform, use --backing=heap")
}
