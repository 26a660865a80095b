// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogc-project/gogc/gc"
)

// objgraphCmd mirrors cmd/viewcore/objref.go's ObjNode/ObjRef walk: it
// builds the sample chain, forces one collection so every surviving
// cell has settled into the old generation, then dumps the reachable
// graph from the rooted head to a Graphviz .dot file. It never mutates
// mark state itself -- it only follows the same Ptr/Array fields a
// real TraceGC would, read-only, after the one real collection.
func objgraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objgraph [file]",
		Short: "Dump the sample chain's reachable object graph to a Graphviz .dot file",
		Args:  cobra.MaximumNArgs(1),
	}
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
		h := buildChain(c, n, &drops)
		defer h.Release()
		c.ForceCollect()

		filename := "gcinspect.dot"
		if len(args) == 1 {
			filename = args[0]
		}
		w, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer w.Close()

		fmt.Fprintln(w, "digraph {")
		visited := map[uintptr]bool{}
		root := h.Resolve(c)
		fmt.Fprintf(w, "root [shape=hexagon,label=\"root\"]\n")
		fmt.Fprintf(w, "root -> n%x\n", root.Addr())
		walkCell(w, root, visited)
		fmt.Fprintln(w, "}")

		fmt.Printf("wrote object graph to %s\n", filename)
		return nil
	}
	return cmd
}

func walkCell(w *os.File, p gc.Ptr[cell], visited map[uintptr]bool) {
	if p.IsNil() {
		return
	}
	addr := p.Addr()
	if visited[addr] {
		return
	}
	visited[addr] = true

	v := p.Value()
	fmt.Fprintf(w, "n%x [shape=box,label=\"cell %d\"]\n", addr, v.label)

	if !v.next.IsNil() {
		fmt.Fprintf(w, "n%x -> n%x [label=\"next\"]\n", addr, v.next.Addr())
		walkCell(w, v.next, visited)
	}
	for i := 0; i < v.tags.Len(); i++ {
		t := v.tags.Index(i)
		fmt.Fprintf(w, "n%x -> n%x [label=\"tags[%d].n=%d\",style=dotted]\n", addr, v.tags.Addr(), i, t.n)
	}
}
