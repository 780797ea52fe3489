// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Filer is the storage abstraction FilerRegion grows a heap into: a
// []byte-like, offset-addressed backing store that may be in-process
// memory or a real file, so a Heap's contents can outlive the process
// without any block/placement/coalescing code knowing the difference.

package lldb

// A Filer is a []byte-like model of a file or similar entity. In
// contrast to a file stream, a Filer is not sequentially accessible:
// ReadAt and WriteAt are always "addressed" by an offset and are
// assumed to perform atomically. A Filer is not safe for concurrent
// access; a Heap built over one must be used from a single goroutine,
// or externally serialized, the same as for an in-memory Region.
// BeginUpdate, EndUpdate and Rollback must be either all implemented
// by a Filer for structural integrity, or all no-ops.
type Filer interface {
	// BeginUpdate increments the "nesting" counter (initially zero). Every
	// call to BeginUpdate must be eventually "balanced" by exactly one of
	// EndUpdate or Rollback. Calls to BeginUpdate may nest.
	BeginUpdate()

	// As os.File.Close().
	Close() error

	// EndUpdate decrements the "nesting" counter. If it's zero after that
	// then assume the "storage" has reached structural integrity (after a
	// batch of partial updates). If a Filer implements some support for
	// that (write ahead log, journal, etc.) then the appropriate actions
	// are to be taken for nesting == 0. Invocation of an unbalanced
	// EndUpdate is an error.
	EndUpdate() error

	// As os.File.Name().
	Name() string

	// PunchHole deallocates space inside a "file" in the byte range
	// starting at off and continuing for size bytes. The Filer size (as
	// reported by `Size()`) does not change when hole punching, even when
	// punching the end of a file off. A Filer is free to implement
	// PunchHole as a nop; no guarantees about the content of a punched
	// hole, when eventually read back, are required.
	PunchHole(off, size int64) error

	// As os.File.ReadAt. Note: `off` is an absolute offset and cannot be
	// negative.
	ReadAt(b []byte, off int64) (n int, err error)

	// Rollback cancels and undoes the innermost pending update level.
	// Rollback decrements the "nesting" counter. Invocation of an
	// unbalanced Rollback is an error.
	Rollback() error

	// As os.File.FileInfo().Size().
	Size() int64

	// As os.File.Truncate(). A heap backend only ever grows, so every
	// Truncate a Heap issues extends the Filer; it never shrinks one.
	Truncate(size int64) error

	// As os.File.WriteAt(). Note: `off` is an absolute offset and cannot
	// be negative.
	WriteAt(b []byte, off int64) (n int, err error)
}
