// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogc-project/gogc/gc"
)

// benchCmd runs repeated alloc/collect cycles against a Collector and
// reports wall time and the threshold-doubling trail, a scriptable
// analogue of cmd/viewcore's -prof flag rather than a criterion-style
// microbenchmark.
func benchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run repeated allocate/collect cycles and report timing and threshold growth",
	}
	cycles := cmd.Flags().Int("cycles", 20, "number of alloc+ForceCollect cycles to run")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		n, err := cmd.Flags().GetInt("chain-length")
		if err != nil {
			return err
		}
		c, err := newDemoCollector(cmd)
		if err != nil {
			return err
		}

		var drops int
		start := time.Now()
		var last gc.Stats
		for i := 0; i < *cycles; i++ {
			h := buildChain(c, n, &drops)
			c.ForceCollect()
			last = c.Stats()
			h.Release()
			log.Printf("cycle %d: old=%d bytes, old threshold=%d, dropped so far=%d", i, last.OldBytes, last.OldThreshold, drops)
		}
		elapsed := time.Since(start)
		fmt.Printf("ran %d cycles of chain length %d in %s\n", *cycles, n, elapsed)
		fmt.Printf("final old threshold: %d bytes, cells dropped across run: %d\n", last.OldThreshold, drops)
		return nil
	}
	return cmd
}
