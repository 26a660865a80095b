// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gcinspect exercises and inspects a gc.Collector from the
// command line: it builds a sample object graph, runs collections
// against it, and reports what survived. Run "gcinspect help" for a
// list of subcommands.
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("gcinspect: ")
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
