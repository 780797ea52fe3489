// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A FilerRegion-backed heap stores its words in MemFiler pages; this
// exercises MemFiler's own page allocation and release bookkeeping in
// isolation, without going through FilerRegion/Heap at all.
func TestMemFilerWriteAtReleasesZeroPages(t *testing.T) {
	f := NewMemFiler()

	_, err := f.WriteAt([]byte{1}, 0)
	require.NoError(t, err)
	assert.Len(t, f.m, 1)

	_, err = f.WriteAt([]byte{2}, pgSize)
	require.NoError(t, err)
	assert.Len(t, f.m, 2)

	_, err = f.WriteAt([]byte{3}, 2*pgSize)
	require.NoError(t, err)
	assert.Len(t, f.m, 3)

	_, err = f.WriteAt(make([]byte, 2*pgSize), pgSize/2)
	require.NoError(t, err)
	assert.Len(t, f.m, 2)

	require.NoError(t, f.Truncate(1))
	assert.Len(t, f.m, 1)

	require.NoError(t, f.Truncate(0))
	assert.Len(t, f.m, 0)
}
