// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// statsCmd mirrors cmd/viewcore's "overview" command: a handful of
// tab-aligned summary lines over whatever the core already tracks.
func statsCmd() *cobra.Command {
	var drops int
	return &cobra.Command{
		Use:   "stats",
		Short: "Allocate the sample chain, force a collection, and print heap stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := cmd.Flags().GetInt("chain-length")
			if err != nil {
				return err
			}
			c, err := newDemoCollector(cmd)
			if err != nil {
				return err
			}
			h := buildChain(c, n, &drops)
			defer h.Release()

			before := c.Stats()
			c.ForceCollect()
			after := c.Stats()

			t := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
			fmt.Fprintf(t, "metric\tbefore\tafter\n")
			fmt.Fprintf(t, "young bytes\t%d\t%d\n", before.YoungBytes, after.YoungBytes)
			fmt.Fprintf(t, "old bytes\t%d\t%d\n", before.OldBytes, after.OldBytes)
			fmt.Fprintf(t, "young threshold\t%d\t%d\n", before.YoungThreshold, after.YoungThreshold)
			fmt.Fprintf(t, "old threshold\t%d\t%d\n", before.OldThreshold, after.OldThreshold)
			fmt.Fprintf(t, "live old objects\t%d\t%d\n", before.LiveOldObjects, after.LiveOldObjects)
			fmt.Fprintf(t, "cells dropped\t%d\t%d\n", 0, drops)
			return t.Flush()
		},
	}
}
