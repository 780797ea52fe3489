// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "github.com/rs/zerolog"

// Config carries the allocator's tunable constants plus the ambient
// collaborators (logger). A Heap is an explicit allocator context built
// from a Config, rather than process-wide globals, so that more than one
// independent heap may coexist.
type Config struct {
	// Word is the machine word size in bytes. Sizes and tags are one Word.
	Word int

	// Alignment every payload address must satisfy. Equal to Word for this
	// allocator.
	Alignment int

	// ChunkSize is the minimum number of bytes requested from the region
	// manager on each heap extension, to amortize the cost of growing.
	ChunkSize int64

	// Buckets is the number of segregated free list buckets (N).
	Buckets int

	// ScanLimit bounds how many candidates findFit inspects in a single
	// bucket before moving on to the next larger one.
	ScanLimit int

	// Logger receives structured lifecycle events (heap init, region
	// growth, out-of-memory). Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the allocator's canonical constants:
// WORD = 8, ALIGNMENT = 8, CHUNKSIZE = 4096, N = 12, LIST_SCAN_LIMIT = 50.
func DefaultConfig() Config {
	return Config{
		Word:      8,
		Alignment: 8,
		ChunkSize: 4096,
		Buckets:   12,
		ScanLimit: 50,
		Logger:    zerolog.Nop(),
	}
}

// minBlock is the smallest size a block may occupy: header + two pointer
// words of payload + footer == 4 words.
func (c Config) minBlock() int64 {
	return 4 * int64(c.Word)
}

func (c Config) align(n int64) int64 {
	a := int64(c.Alignment)
	return (n + a - 1) &^ (a - 1)
}
