// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command memallocctl drives a malloc.Heap from a script of alloc/free/
// realloc/check commands, one per line, printing the resulting address or
// error for each. It exists to exercise the allocator interactively
// without writing a Go program against the package.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/elizaMkraule/malloc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		scriptPath string
		chunkSize  int64
		buckets    int
		verbose    bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "memallocctl",
		Short: "Drive a malloc.Heap from a script of alloc/free/realloc/check commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

			cfg := malloc.DefaultConfig()
			cfg.Logger = logger
			if chunkSize > 0 {
				cfg.ChunkSize = chunkSize
			}
			if buckets > 0 {
				cfg.Buckets = buckets
			}

			h, err := malloc.NewHeap(cfg)
			if err != nil {
				return fmt.Errorf("init heap: %w", err)
			}

			in := os.Stdin
			if scriptPath != "" && scriptPath != "-" {
				f, err := os.Open(scriptPath)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			return runScript(h, in, os.Stdout, verbose)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&scriptPath, "script", "f", "-", "path to a command script, or - for stdin")
	flags.Int64Var(&chunkSize, "chunk-size", 0, "override the region growth chunk size in bytes")
	flags.IntVar(&buckets, "buckets", 0, "override the number of segregated free-list buckets")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every block visited by `check`")
	flags.StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
	flags.SortFlags = false

	return cmd
}

// runScript executes one command per line read from r, writing results to
// w. Recognized commands:
//
//	alloc <size>         -> prints the new block's address
//	free <addr>
//	realloc <addr> <size> -> prints the (possibly new) address
//	check                 -> runs the consistency checker
func runScript(h *malloc.Heap, r *os.File, w *os.File, verbose bool) error {
	addrs := map[string]malloc.Addr{}
	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "alloc":
			size, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			a, err := h.Alloc(size)
			if err != nil {
				fmt.Fprintf(w, "line %d: alloc failed: %v\n", lineNo, err)
				continue
			}
			name := fmt.Sprintf("$%d", len(addrs))
			addrs[name] = a
			fmt.Fprintf(w, "%s = %d\n", name, a)

		case "free":
			a, err := resolveAddr(addrs, fields[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err := h.Free(a); err != nil {
				fmt.Fprintf(w, "line %d: free failed: %v\n", lineNo, err)
				continue
			}
			fmt.Fprintf(w, "freed %d\n", a)

		case "realloc":
			a, err := resolveAddr(addrs, fields[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			size, err := strconv.Atoi(fields[2])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			b, err := h.Realloc(a, size)
			if err != nil {
				fmt.Fprintf(w, "line %d: realloc failed: %v\n", lineNo, err)
				continue
			}
			fmt.Fprintf(w, "%d -> %d\n", a, b)

		case "check":
			if err := h.CheckHeap(verbose, w); err != nil {
				fmt.Fprintf(w, "check failed: %v\n", err)
			} else {
				fmt.Fprintln(w, "heap is consistent")
			}

		default:
			return fmt.Errorf("line %d: unknown command %q", lineNo, fields[0])
		}
	}
	return scanner.Err()
}

func resolveAddr(addrs map[string]malloc.Addr, tok string) (malloc.Addr, error) {
	if a, ok := addrs[tok]; ok {
		return a, nil
	}
	n, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown address token %q", tok)
	}
	return malloc.Addr(n), nil
}
