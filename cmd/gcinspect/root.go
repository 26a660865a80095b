// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/gogc-project/gogc/gc"
)

// rootCmd builds the gcinspect command tree: a cobra.Command root
// with one subcommand per diagnostic operation, mirroring
// cmd/viewcore's one-cobra.Command-per-subcommand shape
// (cmd/viewcore/objref.go) rather than viewcore's own bare-flag
// command dispatch, since gcinspect's subcommands each need their own
// flag set.
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gcinspect",
		Short: "Inspect and exercise a gogc generational collector",
		Long: `gcinspect builds a sample heap of linked cells, roots it, and runs
collections against it, printing whatever state each subcommand cares
about. It exists to demonstrate the collector interactively; it has no
bearing on any program actually using the gc package.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().Int("chain-length", 8, "number of cells to allocate in the sample chain")
	root.PersistentFlags().String("backing", defaultBacking(), "old-generation allocator to use: mmap or heap")
	root.PersistentFlags().Int64("young-bytes", int64(gc.DefaultYoungRegionBytes), "young generation region size, in bytes")

	root.AddCommand(statsCmd())
	root.AddCommand(histogramCmd())
	root.AddCommand(benchCmd())
	root.AddCommand(objgraphCmd())
	root.AddCommand(replCmd())
	return root
}

func defaultBacking() string {
	if _, err := newMmapBacking(); err == nil {
		return "mmap"
	}
	return "heap"
}

// newDemoCollector builds a Collector and backing allocator from the
// root command's persistent flags.
func newDemoCollector(cmd *cobra.Command) (*gc.Collector, error) {
	backingName, err := cmd.Flags().GetString("backing")
	if err != nil {
		return nil, err
	}
	youngBytes, err := cmd.Flags().GetInt64("young-bytes")
	if err != nil {
		return nil, err
	}
	backing, err := newBacking(backingName)
	if err != nil {
		return nil, err
	}
	c := gc.New(gc.NewIdentity(), backing, gc.WithYoungRegionBytes(uintptr(youngBytes)))
	return c, nil
}
