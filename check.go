// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The consistency checker: validates the prologue/epilogue sentinels,
// walks the heap forward and then backward through it via footers,
// walks every free list, and cross-checks header/footer agreement, size
// and alignment invariants, the no-two-adjacent-free-blocks rule, and
// agreement between the heap walk's free blocks and the free lists'
// contents. Grounded on lldb/falloc.go's Allocator.Verify (phase-based
// heap+FLT cross check), simplified since an in-memory heap needs no
// bitmap-based lost-space recovery phase.
//
// The adjacent-free-blocks check compares the *previous* block's
// allocation bit against the current one, not the same side twice, and
// every free-list walk terminates on cursor-vs-sentinel pointer
// identity rather than a copied local's address.

package malloc

import (
	"fmt"
	"io"
)

func (h *Heap) firstBlock() Addr { return h.nextBlock(h.prologueBp) }
func (h *Heap) epilogueBp() Addr { return h.epilogueAddr + wordSize }

// CheckHeap walks the heap and free lists, writing any invariant
// violation found to w (if non-nil) and returning a non-nil error if at
// least one was found. When verbose is true, every visited block is also
// logged to w.
func (h *Heap) CheckHeap(verbose bool, w io.Writer) error {
	var violations int
	report := func(e *ErrInvariant) {
		violations++
		if w != nil {
			fmt.Fprintln(w, e.Error())
		}
	}
	logf := func(format string, args ...interface{}) {
		if verbose && w != nil {
			fmt.Fprintf(w, format+"\n", args...)
		}
	}

	// Phase 0: the prologue never moves or changes size once placed, and
	// the epilogue (moved to the new end by every extendHeap) is always a
	// zero-size allocated header; corruption here (e.g. a stray write past a
	// block's bounds) would otherwise silently derail every traversal.
	if hdr := h.region.readWord(header(h.prologueBp)); sizeOf(hdr) != 2*wordSize || !allocOf(hdr) {
		report(&ErrInvariant{Kind: InvBoundarySentinel, Off: h.prologueBp, Detail: "bad prologue header"})
	}
	if ftr := h.region.readWord(h.footer(h.prologueBp)); sizeOf(ftr) != 2*wordSize || !allocOf(ftr) {
		report(&ErrInvariant{Kind: InvBoundarySentinel, Off: h.prologueBp, Detail: "bad prologue footer"})
	}
	if epi := h.region.readWord(h.epilogueAddr); sizeOf(epi) != 0 || !allocOf(epi) {
		report(&ErrInvariant{Kind: InvBoundarySentinel, Off: h.epilogueAddr, Detail: "bad epilogue header"})
	}

	// Phase 1: forward traversal from the first regular block to the
	// epilogue, checking per-block invariants and collecting the
	// heap-walk's free-block multiset and visitation order.
	heapFree := map[Addr]int64{}
	var forwardOrder []Addr
	prevAlloc := true // the prologue counts as allocated
	bp := h.firstBlock()
	for bp != h.epilogueBp() {
		hdrWord := h.region.readWord(header(bp))
		ftrWord := h.region.readWord(h.footer(bp))
		if hdrWord != ftrWord {
			report(&ErrInvariant{Kind: InvHeaderFooterMismatch, Off: bp})
		}

		size := sizeOf(hdrWord)
		alloc := allocOf(hdrWord)
		logf("block at %d: size=%d alloc=%t", bp, size, alloc)

		if size%int64(h.cfg.Alignment) != 0 || size < h.cfg.minBlock() {
			report(&ErrInvariant{Kind: InvBadSize, Off: bp, Detail: fmt.Sprintf("size=%d", size)})
			break // size is untrustworthy; further traversal would wander off the heap
		}

		if int64(bp)%int64(h.cfg.Alignment) != 0 {
			report(&ErrInvariant{Kind: InvAlignment, Off: bp})
		}

		if !alloc && !prevAlloc {
			report(&ErrInvariant{Kind: InvAdjacentFree, Off: bp, Detail: "previous block is also free"})
		}

		if !alloc {
			heapFree[bp] = size
		}

		forwardOrder = append(forwardOrder, bp)
		prevAlloc = alloc
		bp += Addr(size)
	}

	// Phase 1.5: reverse traversal, following each block's footer back
	// to its left neighbor, must retrace forwardOrder exactly backwards.
	// This is the cross-check forward-only traversal can't provide: a
	// footer silently left stale (but a valid-looking word) would never
	// show up as a header/footer mismatch on its own block, only as a
	// wrong jump here.
	if n := len(forwardOrder); n > 0 {
		cur := forwardOrder[n-1]
		i := n - 1
		diverged := false
		for cur != h.prologueBp {
			if i < 0 || forwardOrder[i] != cur {
				report(&ErrInvariant{Kind: InvReverseTraversal, Off: cur, Detail: "reverse walk diverges from forward order"})
				diverged = true
				break
			}
			i--
			cur = h.prevBlock(cur)
		}
		if !diverged && i >= 0 {
			report(&ErrInvariant{Kind: InvReverseTraversal, Off: forwardOrder[0], Detail: "reverse walk stopped short of the first block"})
		}
	}

	// Phase 2: walk every bucket, checking membership and collecting the
	// bucket-walk's free-block multiset.
	bucketFree := map[Addr]int64{}
	for b := 0; b < h.cfg.Buckets; b++ {
		sentinel := h.sentinelAddr(b)
		for cur := h.freeNodeNext(sentinel); cur != sentinel; cur = h.freeNodeNext(cur) {
			size := h.blockSize(cur)
			if got := h.bucketFor(size); got != b {
				report(&ErrInvariant{
					Kind: InvBucketMismatch,
					Off:  cur,
					Detail: fmt.Sprintf("size %d belongs in bucket %d, found in bucket %d",
						size, got, b),
				})
			}
			bucketFree[cur] = size
		}
	}

	// Phase 3: the multiset of free blocks found by heap traversal must
	// equal the multiset found by visiting every bucket's list.
	if len(heapFree) != len(bucketFree) {
		report(&ErrInvariant{
			Kind: InvBucketMembership,
			Detail: fmt.Sprintf("heap walk found %d free block(s), bucket walk found %d",
				len(heapFree), len(bucketFree)),
		})
	} else {
		for addr, size := range heapFree {
			if bsize, ok := bucketFree[addr]; !ok || bsize != size {
				report(&ErrInvariant{Kind: InvBucketMembership, Off: addr, Detail: "present in heap walk, absent (or size-mismatched) in bucket walk"})
			}
		}
	}

	if violations > 0 {
		return fmt.Errorf("malloc: check_heap found %d invariant violation(s)", violations)
	}
	return nil
}
