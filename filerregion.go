// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// FilerRegion adapts an lldb.Filer (a ReadAt/WriteAt/Truncate byte store)
// into the backend a Heap grows into, so a heap's contents can persist
// past the process rather than live only in an in-memory Region.
// Grounded on lldb/memfiler.go and lldb/simplefilefiler.go, whose
// MemFiler and SimpleFileFiler are the two Filer implementations this
// type is meant to sit on top of.

package malloc

import (
	"io"

	"github.com/elizaMkraule/malloc/lldb"
)

var _ backend = &FilerRegion{}

// FilerRegion is a backend that stores every header, footer, free-list
// node, and payload byte through an lldb.Filer, growing it by Truncate
// rather than a Go slice append. Like Region, it only ever grows.
type FilerRegion struct {
	f    lldb.Filer
	size int64
}

// NewFilerRegion wraps f, which must be empty (Size() == 0); typically
// lldb.NewMemFiler() for a scratch heap, or the *SimpleFileFiler/*OSFiler
// returned by lldb.NewSimpleFileFiler/lldb.NewOSFiler over a freshly
// created *os.File for one that should survive a restart.
func NewFilerRegion(f lldb.Filer) *FilerRegion {
	return &FilerRegion{f: f, size: f.Size()}
}

// Size returns the current high-water size of the backing Filer.
func (r *FilerRegion) Size() int64 { return r.size }

// Extend grows the Filer by n bytes via Truncate and returns the offset
// of the first new byte.
func (r *FilerRegion) Extend(n int64) (Addr, error) {
	if n <= 0 {
		return 0, &ErrOutOfMemory{Requested: n}
	}

	base := r.size
	if err := r.f.Truncate(base + n); err != nil {
		return 0, &ErrOutOfMemory{Requested: n}
	}
	r.size += n
	return Addr(base), nil
}

func (r *FilerRegion) readWord(off Addr) uint64 {
	var b [wordSize]byte
	// A full read that ends exactly at the Filer's size may come back
	// with io.EOF (MemFiler does this for the epilogue word), which is
	// not a failure.
	if n, err := r.f.ReadAt(b[:], int64(off)); n != len(b) || (err != nil && err != io.EOF) {
		panic(err)
	}
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

func (r *FilerRegion) writeWord(off Addr, w uint64) {
	var b [wordSize]byte
	b[0] = byte(w)
	b[1] = byte(w >> 8)
	b[2] = byte(w >> 16)
	b[3] = byte(w >> 24)
	b[4] = byte(w >> 32)
	b[5] = byte(w >> 40)
	b[6] = byte(w >> 48)
	b[7] = byte(w >> 56)
	if _, err := r.f.WriteAt(b[:], int64(off)); err != nil {
		panic(err)
	}
}

// copyBytes copies n bytes from src to dst, reading the whole source
// range into memory first so that, like Region.copyBytes, an
// overlapping move is correct even though Filer has no memmove
// primitive of its own.
func (r *FilerRegion) copyBytes(dst, src Addr, n int64) {
	if n <= 0 {
		return
	}
	buf := make([]byte, n)
	if _, err := r.f.ReadAt(buf, int64(src)); err != nil {
		panic(err)
	}
	if _, err := r.f.WriteAt(buf, int64(dst)); err != nil {
		panic(err)
	}
}
