// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The segregated free-list index: N circular doubly-linked lists, one per
// size class, each anchored by a fixed sentinel node. Grounded on
// lldb/flt.go's get/put size-class-to-slot lookup tables, generalized
// from a single-head-pointer-per-slot model to explicit sentinel-node
// circular lists so a list can be walked and spliced without a special
// case for the empty list.

package malloc

import "math/bits"

// sentinelNodeSize is the footprint of one bucket sentinel: the same
// {next, prev} two-word layout as a free block's list node.
const sentinelNodeSize = 2 * wordSize

// bucketFor returns the bucket index for a free (or about-to-be-freed)
// block of the given size: bucket i holds sizes in [2^(i+5), 2^(i+6))
// for i in [0, N-2]; the last bucket holds everything >= 2^(N+4). Runs
// in O(1) via a count-leading-zeros primitive rather than a loop over
// bucket boundaries.
func (h *Heap) bucketFor(size int64) int {
	lg := bits.Len64(uint64(size)) - 1 // floor(log2 size)
	b := lg - 5
	if b < 0 {
		b = 0
	}
	if n := h.cfg.Buckets; b > n-1 {
		b = n - 1
	}
	return b
}

// sentinelAddr returns the fixed address of bucket i's sentinel node.
func (h *Heap) sentinelAddr(bucket int) Addr {
	return h.sentinelBase + Addr(bucket*sentinelNodeSize)
}

// initSentinels makes every bucket's sentinel point to itself, the
// initial state of an empty circular list.
func (h *Heap) initSentinels() {
	for i := 0; i < h.cfg.Buckets; i++ {
		s := h.sentinelAddr(i)
		h.setFreeNodeNext(s, s)
		h.setFreeNodePrev(s, s)
	}
}

// insertFree places bp immediately before its bucket's sentinel (i.e. as
// the new tail entry); first-fit traversal always starts at
// sentinel.next and therefore visits bp last among same-bucket blocks
// already present.
func (h *Heap) insertFree(bp Addr) {
	bucket := h.bucketFor(h.blockSize(bp))
	sentinel := h.sentinelAddr(bucket)
	last := h.freeNodePrev(sentinel)

	h.setFreeNodeNext(last, bp)
	h.setFreeNodePrev(bp, last)
	h.setFreeNodeNext(bp, sentinel)
	h.setFreeNodePrev(sentinel, bp)
}

// removeFree unlinks bp from whatever bucket list it currently sits in.
// The bucket need not be known because the list is doubly linked.
func (h *Heap) removeFree(bp Addr) {
	next := h.freeNodeNext(bp)
	prev := h.freeNodePrev(bp)
	h.setFreeNodeNext(prev, next)
	h.setFreeNodePrev(next, prev)
}
