// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/gogc-project/gogc/gc"
)

// replCmd mirrors ogle's readline-driven interactive client: instead
// of stepping a traced process, it steps a live gc.Collector one
// command at a time, printing Stats() after each collect and on
// request with the stats command.
func replCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively allocate, root, drop and collect against a sample heap",
		Long: `repl starts an interactive shell over a single gc.Collector and an
initially empty set of named handles. Commands:

  alloc <name> <label>   allocate a cell bound to <label>, store it under <name>
  link <name> <to>       set <name>'s next pointer to the cell stored under <to>
  root <name>            take a root Handle on <name>, keeping it alive across collections
  release <name>         release <name>'s root Handle
  collect                force a collection
  stats                  print Stats()
  list                   list bound names
  quit                   exit

A name with no root handle is only valid until the next collect: its
underlying Ptr is an ordinary Go value with no borrow checker behind
it, exactly as package gc documents.
`,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := newDemoCollector(cmd)
		if err != nil {
			return err
		}
		return runRepl(c)
	}
	return cmd
}

type replState struct {
	c      *gc.Collector
	ptrs   map[string]gc.Ptr[cell]
	roots  map[string]gc.Handle[cell]
	dropCt int
}

func runRepl(c *gc.Collector) error {
	rl, err := readline.New("gcinspect> ")
	if err != nil {
		return fmt.Errorf("gcinspect: starting readline: %w", err)
	}
	defer rl.Close()

	s := &replState{
		c:     c,
		ptrs:  map[string]gc.Ptr[cell]{},
		roots: map[string]gc.Handle[cell]{},
	}

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := s.dispatch(fields); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Println("error:", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func (s *replState) dispatch(fields []string) error {
	switch fields[0] {
	case "quit", "exit":
		return errQuit
	case "list":
		for name := range s.ptrs {
			_, rooted := s.roots[name]
			fmt.Printf("%s (rooted=%v)\n", name, rooted)
		}
		return nil
	case "stats":
		printStats(s.c.Stats())
		return nil
	case "collect":
		s.c.ForceCollect()
		for name, h := range s.roots {
			s.ptrs[name] = h.Resolve(s.c)
		}
		printStats(s.c.Stats())
		return nil
	case "alloc":
		if len(fields) != 3 {
			return fmt.Errorf("usage: alloc <name> <label>")
		}
		label, err := strconv.Atoi(fields[2])
		if err != nil {
			return err
		}
		s.ptrs[fields[1]] = gc.AllocWith(s.c, func(p *cell) {
			p.label = label
			p.dropped = &s.dropCt
		})
		return nil
	case "link":
		if len(fields) != 3 {
			return fmt.Errorf("usage: link <name> <to>")
		}
		from, ok := s.ptrs[fields[1]]
		if !ok {
			return fmt.Errorf("no such cell %q", fields[1])
		}
		to, ok := s.ptrs[fields[2]]
		if !ok {
			return fmt.Errorf("no such cell %q", fields[2])
		}
		from.Value().next = to
		return nil
	case "root":
		if len(fields) != 2 {
			return fmt.Errorf("usage: root <name>")
		}
		p, ok := s.ptrs[fields[1]]
		if !ok {
			return fmt.Errorf("no such cell %q", fields[1])
		}
		s.roots[fields[1]] = gc.Root(s.c, p)
		return nil
	case "release":
		if len(fields) != 2 {
			return fmt.Errorf("usage: release <name>")
		}
		h, ok := s.roots[fields[1]]
		if !ok {
			return fmt.Errorf("%q has no root handle", fields[1])
		}
		h.Release()
		delete(s.roots, fields[1])
		return nil
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func printStats(st gc.Stats) {
	fmt.Printf("young=%d/%d old=%d/%d live-old-objects=%d\n",
		st.YoungBytes, st.YoungThreshold, st.OldBytes, st.OldThreshold, st.LiveOldObjects)
}
