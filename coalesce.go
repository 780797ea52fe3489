// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The coalescing engine: a four-case state machine merging a newly freed
// block with its free neighbors, eager per invariant 3 (no two adjacent
// free blocks ever coexist). Grounded on lldb/falloc.go's free2, which
// splits the same four cases (isolated / right join / left join / middle
// join) over atom-addressed blocks instead of word-addressed ones.

package malloc

// coalesce is invoked after bp has been marked free (header and footer
// already updated) but before insertion into any bucket. It merges with
// free neighbors as needed and inserts the resulting block, returning its
// (possibly relocated) payload address. The prologue and epilogue
// guarantee prev/next lookups are always safe, even at the heap's ends.
func (h *Heap) coalesce(bp Addr) Addr {
	prev := h.prevBlock(bp)
	next := h.nextBlock(bp)
	prevAlloc := h.blockAllocated(prev)
	nextAlloc := h.blockAllocated(next)
	size := h.blockSize(bp)

	switch {
	case prevAlloc && nextAlloc:
		h.insertFree(bp)
		return bp

	case prevAlloc && !nextAlloc:
		h.removeFree(next)
		size += h.blockSize(next)
		h.setHeaderFooter(bp, size, false)
		h.insertFree(bp)
		return bp

	case !prevAlloc && nextAlloc:
		h.removeFree(prev)
		size += h.blockSize(prev)
		h.setHeaderFooter(prev, size, false)
		h.insertFree(prev)
		return prev

	default: // !prevAlloc && !nextAlloc
		h.removeFree(prev)
		h.removeFree(next)
		size += h.blockSize(prev) + h.blockSize(next)
		h.setHeaderFooter(prev, size, false)
		h.insertFree(prev)
		return prev
	}
}
