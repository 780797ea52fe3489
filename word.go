// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pure header/footer word codec: pack(size, alloc), sizeOf, allocOf.
//
// A header or footer word encodes (size, allocated_bit): the low bit is
// the allocated flag, the remaining bits are the block size in bytes.
// Since every size is a multiple of 8, the low 3 bits of size are always
// zero and free for tag use; only the low bit is used here.

package malloc

const allocBit uint64 = 1

// pack encodes size and the allocated flag into a single header/footer
// word. size must already be a multiple of 8.
func pack(size int64, alloc bool) uint64 {
	w := uint64(size)
	if alloc {
		w |= allocBit
	}
	return w
}

// sizeOf extracts the block size (in bytes) from a header/footer word.
func sizeOf(w uint64) int64 {
	return int64(w &^ allocBit)
}

// allocOf extracts the allocated flag from a header/footer word.
func allocOf(w uint64) bool {
	return w&allocBit != 0
}
