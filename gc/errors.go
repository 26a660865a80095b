// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import (
	"errors"
	"fmt"
)

// ErrSizeExceedsLimit is returned by the young generation's
// allocation path when a value's layout exceeds its configured
// maximum object size. It is recoverable: the caller routes the
// allocation to the old generation instead.
var ErrSizeExceedsLimit = errors.New("gc: object size exceeds young generation limit")

// ErrOutOfMemory is returned when a space cannot satisfy an
// allocation at all. Unlike ErrSizeExceedsLimit this is fatal: callers
// in this package never recover from it, they panic with it attached.
var ErrOutOfMemory = errors.New("gc: out of memory")

// fatalf panics with a diagnostic. It is the response to every error
// this package treats as unrecoverable: identity mismatch, mid-cycle
// allocation failure, and out-of-memory at the top-level Alloc entry
// points. None of these are recovered internally; an embedder that
// needs soft-OOM behavior is expected to size its backing pools
// accordingly, not to recover from a panic here.
func fatalf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
