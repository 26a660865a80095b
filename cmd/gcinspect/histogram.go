// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// histogramCmd mirrors cmd/viewcore's "histogram" command: a
// count/size-per-type breakdown, here of the sample chain's live old
// generation after one forced collection.
func histogramCmd() *cobra.Command {
	var drops int
	return &cobra.Command{
		Use:   "histogram",
		Short: "Print a per-type histogram of old-generation bytes after a collection",
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
			c.ForceCollect()

			entries := c.Histogram()
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Bytes > entries[j].Bytes
			})

			t := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
			fmt.Fprintf(t, "count\tbytes\ttype\t\n")
			for _, e := range entries {
				fmt.Fprintf(t, "%d\t%d\t%s\t\n", e.Count, e.Bytes, e.Name)
			}
			return t.Flush()
		},
	}
}
