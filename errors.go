// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import "fmt"

// InvariantKind identifies which heap invariant a consistency check
// violated. See CheckHeap.
type InvariantKind int

const (
	InvHeaderFooterMismatch InvariantKind = iota
	InvBadSize
	InvTraversal
	InvAdjacentFree
	InvBucketMembership
	InvBucketMismatch
	InvAlignment
	InvFreeListCorrupt
	InvBoundarySentinel
	InvReverseTraversal
)

func (k InvariantKind) String() string {
	switch k {
	case InvHeaderFooterMismatch:
		return "header/footer mismatch"
	case InvBadSize:
		return "invalid block size"
	case InvTraversal:
		return "heap traversal failed"
	case InvAdjacentFree:
		return "two adjacent free blocks"
	case InvBucketMembership:
		return "free block multiset mismatch between heap and buckets"
	case InvBucketMismatch:
		return "free block in wrong bucket"
	case InvAlignment:
		return "payload address misaligned"
	case InvFreeListCorrupt:
		return "free list structurally corrupt"
	case InvBoundarySentinel:
		return "prologue or epilogue sentinel corrupt"
	case InvReverseTraversal:
		return "reverse (footer-based) traversal disagrees with forward traversal"
	default:
		return "unknown invariant"
	}
}

// ErrOutOfMemory is returned when the region manager refuses to grow the
// heap to satisfy an allocation.
type ErrOutOfMemory struct {
	Requested int64
}

func (e *ErrOutOfMemory) Error() string {
	return fmt.Sprintf("malloc: out of memory, requested %d bytes", e.Requested)
}

// ErrInitFailure is returned when NewHeap could not place the sentinels,
// the prologue/epilogue, or the initial free block.
type ErrInitFailure struct {
	Reason string
}

func (e *ErrInitFailure) Error() string {
	return fmt.Sprintf("malloc: init failed: %s", e.Reason)
}

// ErrInvalidHandle is returned when an address passed to Free or Realloc
// cannot possibly refer to a block owned by this heap. This is a
// best-effort contract check, not a guarantee: misuse (a foreign
// pointer, a double free) is otherwise undefined behavior.
type ErrInvalidHandle struct {
	Addr Addr
}

func (e *ErrInvalidHandle) Error() string {
	return fmt.Sprintf("malloc: invalid handle at offset %d", e.Addr)
}

// ErrInvariant is reported by CheckHeap, never by the allocation path.
type ErrInvariant struct {
	Kind   InvariantKind
	Off    Addr
	Detail string
}

func (e *ErrInvariant) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("malloc: invariant violated (%s) at offset %d", e.Kind, e.Off)
	}
	return fmt.Sprintf("malloc: invariant violated (%s) at offset %d: %s", e.Kind, e.Off, e.Detail)
}
