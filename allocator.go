// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Heap is the explicit allocator context, orchestrating the region
// manager, block encoding, segregated index, placement and coalescing
// engines behind the four public entry points: NewHeap (init), Alloc,
// Free, Realloc. Grounded on lldb/falloc.go's Allocator
// (NewAllocator/Alloc/Free/Realloc).

package malloc

import "github.com/elizaMkraule/malloc/lldb"

// Heap is a single allocator context over one backend (a Region, or a
// FilerRegion when built by NewHeapFiler). It is not safe for
// concurrent use; a caller needing cross-goroutine access must serialize
// it externally, matching Filer's own documented concurrency contract.
type Heap struct {
	region       backend
	cfg          Config
	sentinelBase Addr
	prologueBp   Addr
	epilogueAddr Addr
}

// NewHeap creates and initializes a heap backed by an in-memory Region:
// the segregated index's sentinel table, the prologue/epilogue
// sentinels, and an initial free block of cfg.ChunkSize bytes. Failure
// at any step is fatal and reported as ErrInitFailure.
func NewHeap(cfg Config) (*Heap, error) {
	return newHeapOver(NewRegion(), cfg)
}

// NewHeapFiler creates a heap backed by f via FilerRegion, so the
// heap's contents live (and can persist) in f rather than in process
// memory. f must be empty.
func NewHeapFiler(f lldb.Filer, cfg Config) (*Heap, error) {
	return newHeapOver(NewFilerRegion(f), cfg)
}

func newHeapOver(region backend, cfg Config) (*Heap, error) {
	h := &Heap{region: region, cfg: cfg}

	sentinelBase, err := h.region.Extend(int64(cfg.Buckets * sentinelNodeSize))
	if err != nil {
		return nil, &ErrInitFailure{Reason: "cannot place segregated index: " + err.Error()}
	}
	h.sentinelBase = sentinelBase
	h.initSentinels()

	base, err := h.region.Extend(3 * wordSize)
	if err != nil {
		return nil, &ErrInitFailure{Reason: "cannot place prologue/epilogue: " + err.Error()}
	}

	prologueHdr := base
	h.prologueBp = prologueHdr + wordSize
	h.region.writeWord(prologueHdr, pack(2*wordSize, true))
	h.region.writeWord(prologueHdr+wordSize, pack(2*wordSize, true))
	h.epilogueAddr = prologueHdr + 2*wordSize
	h.region.writeWord(h.epilogueAddr, pack(0, true))

	if _, err := h.extendHeap(cfg.ChunkSize); err != nil {
		return nil, &ErrInitFailure{Reason: "cannot seed initial free block: " + err.Error()}
	}

	cfg.Logger.Debug().
		Int("buckets", cfg.Buckets).
		Int64("chunkSize", cfg.ChunkSize).
		Msg("heap initialized")

	return h, nil
}

// asizeFor computes the block size needed to host a size-byte payload:
// the requested size plus header+footer overhead, aligned, never below
// MIN_BLOCK.
func (h *Heap) asizeFor(size int64) int64 {
	asize := h.cfg.align(size) + 2*wordSize
	if m := h.cfg.minBlock(); asize < m {
		asize = m
	}
	return asize
}

// extendHeap grows the region by (an even number of words worth of)
// bytes, materializing a new free block where the old epilogue header
// sat and writing a fresh epilogue past it, then immediately coalescing
// the new block with the heap's previous tail if that was free too.
func (h *Heap) extendHeap(bytes int64) (Addr, error) {
	words := bytes / wordSize
	if words%2 != 0 {
		words++
	}
	size := words * wordSize

	base, err := h.region.Extend(size)
	if err != nil {
		return 0, err
	}

	bp := base
	h.setHeaderFooter(bp, size, false)
	h.epilogueAddr = bp + Addr(size) - wordSize
	h.region.writeWord(h.epilogueAddr, pack(0, true))

	h.cfg.Logger.Debug().
		Int64("bytes", size).
		Int64("regionSize", h.region.Size()).
		Msg("heap extended")

	return h.coalesce(bp), nil
}

// Alloc returns the address of a freshly allocated block able to hold
// size bytes of payload, or (0, nil) if size is 0 ("nothing"), or an
// error if the region could not be grown to satisfy the request.
func (h *Heap) Alloc(size int) (Addr, error) {
	if size <= 0 {
		return 0, nil
	}

	asize := h.asizeFor(int64(size))

	if bp := h.findFit(asize); bp != 0 {
		h.place(bp, asize)
		return bp, nil
	}

	grow := asize
	if h.cfg.ChunkSize > grow {
		grow = h.cfg.ChunkSize
	}

	bp, err := h.extendHeap(grow)
	if err != nil {
		h.cfg.Logger.Warn().Int64("requested", asize).Msg("out of memory")
		return 0, err
	}

	h.place(bp, asize)
	return bp, nil
}

// checkHandle reports ErrInvalidHandle if addr cannot possibly be a
// block this heap placed: out of the heap's bounds, or misaligned. A
// best-effort guard: it catches obviously foreign or garbage addresses,
// not every form of misuse (a stale but in-bounds, aligned double-free
// is still undefined behavior, caught only by CheckHeap if at all).
func (h *Heap) checkHandle(addr Addr) error {
	if addr < h.firstBlock() || addr >= h.epilogueBp() || int64(addr)%int64(h.cfg.Alignment) != 0 {
		return &ErrInvalidHandle{Addr: addr}
	}
	return nil
}

// Free releases the block at addr. addr == 0 ("nothing") is a no-op.
// Returns ErrInvalidHandle if addr is not a plausible handle for this
// heap.
func (h *Heap) Free(addr Addr) error {
	if addr == 0 {
		return nil
	}
	if err := h.checkHandle(addr); err != nil {
		return err
	}

	size := h.blockSize(addr)
	h.setHeaderFooter(addr, size, false)
	h.coalesce(addr)
	return nil
}

// Realloc resizes the block at addr to hold size bytes of payload,
// preferring in-place growth into a free neighbor (left, then right)
// before falling back to allocate-copy-free.
func (h *Heap) Realloc(addr Addr, size int) (Addr, error) {
	if size == 0 {
		return 0, h.Free(addr)
	}

	if addr == 0 {
		return h.Alloc(size)
	}

	if err := h.checkHandle(addr); err != nil {
		return 0, err
	}

	newsize := h.asizeFor(int64(size))
	oldsize := h.blockSize(addr)
	if newsize <= oldsize {
		return addr, nil
	}

	need := newsize - oldsize

	if prev := h.prevBlock(addr); !h.blockAllocated(prev) && h.blockSize(prev) >= need {
		h.removeFree(prev)
		combined := h.blockSize(prev) + oldsize
		h.setHeaderFooter(prev, combined, true)
		h.region.copyBytes(prev, addr, oldsize-2*wordSize)
		return prev, nil
	}

	if next := h.nextBlock(addr); !h.blockAllocated(next) && h.blockSize(next) >= need {
		nextSize := h.blockSize(next)
		h.removeFree(next)

		if residual := nextSize - need; residual >= h.cfg.minBlock() {
			h.setHeaderFooter(addr, newsize, true)
			free := addr + Addr(newsize)
			h.setHeaderFooter(free, residual, false)
			h.insertFree(free)
		} else {
			h.setHeaderFooter(addr, oldsize+nextSize, true)
		}

		return addr, nil
	}

	newAddr, err := h.Alloc(2 * size)
	if err != nil {
		return 0, err
	}

	// Copy only what the old block actually holds: oldsize - 2*WORD
	// bytes. Copying newsize - 2*WORD would over-read past the old
	// block's footer into whatever follows it in the region.
	h.region.copyBytes(newAddr, addr, oldsize-2*wordSize)
	h.Free(addr)
	return newAddr, nil
}
