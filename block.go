// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Block addressing: header/footer/neighbor lookups over a Region. These
// are correct only when block boundaries are valid; the prologue and
// epilogue guarantee the base cases at the heap's ends.

package malloc

const wordSize = 8

// header returns the address of bp's header word.
func header(bp Addr) Addr { return bp - wordSize }

// footer returns the address of bp's footer word.
func (h *Heap) footer(bp Addr) Addr {
	return bp + Addr(h.blockSize(bp)) - 2*wordSize
}

// blockSize reads the size of the block whose payload starts at bp.
func (h *Heap) blockSize(bp Addr) int64 {
	return sizeOf(h.region.readWord(header(bp)))
}

// blockAllocated reports whether the block at bp is currently allocated.
func (h *Heap) blockAllocated(bp Addr) bool {
	return allocOf(h.region.readWord(header(bp)))
}

// nextBlock returns the payload address of the block physically
// following bp.
func (h *Heap) nextBlock(bp Addr) Addr {
	return bp + Addr(h.blockSize(bp))
}

// prevBlock returns the payload address of the block physically
// preceding bp, by reading that neighbor's footer.
func (h *Heap) prevBlock(bp Addr) Addr {
	prevFooter := header(bp) - wordSize
	prevSize := sizeOf(h.region.readWord(prevFooter))
	return bp - Addr(prevSize)
}

// setHeaderFooter writes size/alloc identically into both the header and
// the footer of the block at bp, maintaining invariant 1 (header ≡
// footer for every block at all times outside a single atomic update
// window).
func (h *Heap) setHeaderFooter(bp Addr, size int64, alloc bool) {
	w := pack(size, alloc)
	h.region.writeWord(header(bp), w)
	h.region.writeWord(h.footer(bp), w)
}

// freeNodeNext/freeNodePrev read and write the two-word free-list node
// occupying a free block's first two payload words (or a bucket
// sentinel, which has the identical layout).
func (h *Heap) freeNodeNext(bp Addr) Addr { return Addr(h.region.readWord(bp)) }
func (h *Heap) freeNodePrev(bp Addr) Addr { return Addr(h.region.readWord(bp + wordSize)) }

func (h *Heap) setFreeNodeNext(bp, next Addr) { h.region.writeWord(bp, uint64(next)) }
func (h *Heap) setFreeNodePrev(bp, prev Addr) { h.region.writeWord(bp+wordSize, uint64(prev)) }
