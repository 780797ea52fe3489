// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The placement engine: findFit and place. Grounded on lldb/falloc.go's
// Allocator.alloc (find -> unlink -> split-if-room -> write).

package malloc

// findFit returns a free block of size >= asize, or 0 ("nothing") if
// none exists. It starts at the bucket for asize, scans at most
// ScanLimit candidates per bucket (a latency guardrail, not a
// correctness property: a later, larger bucket may still be worth
// trying even after one bucket's scan is exhausted), and advances to the
// next larger bucket on a miss.
func (h *Heap) findFit(asize int64) Addr {
	start := h.bucketFor(asize)
	for b := start; b < h.cfg.Buckets; b++ {
		sentinel := h.sentinelAddr(b)
		cur := h.freeNodeNext(sentinel)
		for i := 0; cur != sentinel && i < h.cfg.ScanLimit; i++ {
			if h.blockSize(cur) >= asize {
				return cur
			}
			cur = h.freeNodeNext(cur)
		}
	}
	return 0
}

// place carves asize bytes out of the free block bp (size csize >=
// asize), splitting off a residual free block when the leftover is large
// enough to host one, otherwise absorbing the slack into the allocation.
//
// Precondition: bp is a free block currently linked into a bucket.
func (h *Heap) place(bp Addr, asize int64) {
	csize := h.blockSize(bp)
	h.removeFree(bp)

	if residual := csize - asize; residual >= h.cfg.minBlock() {
		h.setHeaderFooter(bp, asize, true)

		free := bp + Addr(asize)
		h.setHeaderFooter(free, residual, false)
		h.insertFree(free)
		return
	}

	h.setHeaderFooter(bp, csize, true)
}
