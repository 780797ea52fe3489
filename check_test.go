// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHeapCleanStateNoViolations(t *testing.T) {
	h := newTestHeap(t)

	a, err := h.Alloc(32)
	require.NoError(t, err)
	_, err = h.Alloc(64)
	require.NoError(t, err)
	require.NoError(t, h.Free(a))

	assert.NoError(t, h.CheckHeap(false, nil))
}

func TestCheckHeapCatchesHeaderFooterMismatch(t *testing.T) {
	h := newTestHeap(t)
	a, err := h.Alloc(32)
	require.NoError(t, err)

	// Corrupt only the footer, leaving the header correct.
	h.region.writeWord(h.footer(a), pack(9999, true))

	var buf bytes.Buffer
	err = h.CheckHeap(false, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), InvHeaderFooterMismatch.String())
}

func TestCheckHeapCatchesAdjacentFreeBlocks(t *testing.T) {
	h := newTestHeap(t)
	a, err := h.Alloc(16)
	require.NoError(t, err)
	b, err := h.Alloc(16)
	require.NoError(t, err)

	// Mark both free directly, bypassing Free's coalescing, to
	// deliberately produce two adjacent free blocks.
	h.setHeaderFooter(a, h.blockSize(a), false)
	h.setHeaderFooter(b, h.blockSize(b), false)

	var buf bytes.Buffer
	err = h.CheckHeap(false, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), InvAdjacentFree.String())
}

func TestCheckHeapCatchesCorruptPrologue(t *testing.T) {
	h := newTestHeap(t)
	_, err := h.Alloc(16)
	require.NoError(t, err)

	// Stomp the prologue header as if something wrote one word too far
	// to the left of the heap's first real block.
	h.region.writeWord(header(h.prologueBp), pack(2*wordSize, false))

	var buf bytes.Buffer
	err = h.CheckHeap(false, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), InvBoundarySentinel.String())
}

func TestCheckHeapCatchesCorruptEpilogue(t *testing.T) {
	h := newTestHeap(t)
	_, err := h.Alloc(16)
	require.NoError(t, err)

	// Stomp the epilogue as if a block just before it overran its own
	// footer.
	h.region.writeWord(h.epilogueAddr, pack(8, true))

	var buf bytes.Buffer
	err = h.CheckHeap(false, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), InvBoundarySentinel.String())
}

func TestCheckHeapCatchesReverseTraversalMismatch(t *testing.T) {
	h := newTestHeap(t)
	a, err := h.Alloc(16)
	require.NoError(t, err)
	_, err = h.Alloc(16)
	require.NoError(t, err)

	// Leave a's header alone, so the forward walk still computes every
	// block's position correctly (it only ever reads headers to
	// advance); corrupt only a's footer size field. A block's footer is
	// exactly what its right neighbor's prevBlock reads to step
	// backward, so this sends the reverse walk to the wrong address
	// without the forward walk's own per-block checks ever wandering
	// off the heap.
	badFooter := pack(h.blockSize(a)+8, h.blockAllocated(a))
	h.region.writeWord(h.footer(a), badFooter)

	var buf bytes.Buffer
	err = h.CheckHeap(false, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), InvReverseTraversal.String())
}

func TestCheckHeapVerboseLogsBlocks(t *testing.T) {
	h := newTestHeap(t)
	_, err := h.Alloc(16)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.CheckHeap(true, &buf))
	assert.Contains(t, buf.String(), "block at")
}
