// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigConstants(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 8, c.Word)
	assert.Equal(t, 8, c.Alignment)
	assert.Equal(t, int64(4096), c.ChunkSize)
	assert.Equal(t, 12, c.Buckets)
	assert.Equal(t, 50, c.ScanLimit)
	assert.Equal(t, int64(32), c.minBlock())
}

func TestConfigAlign(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, int64(0), c.align(0))
	assert.Equal(t, int64(8), c.align(1))
	assert.Equal(t, int64(8), c.align(8))
	assert.Equal(t, int64(16), c.align(9))
	assert.Equal(t, int64(24), c.align(17))
}
