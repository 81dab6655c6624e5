// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package diskarray_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chaindb/diskarray"
	"github.com/bitmark-inc/chaindb/mmfile"
)

func TestArray64StartsEmptyAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buckets64.dat")
	assert.NoError(t, mmfile.Touch(path))
	f := mmfile.Open(path)
	defer f.Close()

	a, err := diskarray.Create64(f, 7)
	assert.NoError(t, err)
	assert.Equal(t, uint32(7), a.BucketCount())
	for i := uint32(0); i < 7; i++ {
		assert.Equal(t, diskarray.NoSlab, a.Read(i))
	}

	a.Write(3, 1234)
	assert.Equal(t, uint64(1234), a.Read(3))
	assert.Equal(t, diskarray.NoSlab, a.Read(4))
}

func TestArray32StartsEmptyAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buckets32.dat")
	assert.NoError(t, mmfile.Touch(path))
	f := mmfile.Open(path)
	defer f.Close()

	a, err := diskarray.Create32(f, 5)
	assert.NoError(t, err)
	for i := uint32(0); i < 5; i++ {
		assert.Equal(t, diskarray.NoRecord, a.Read(i))
	}

	a.Write(1, 99)
	assert.Equal(t, uint32(99), a.Read(1))
}

func TestArray64StartReadsPersistedBucketCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buckets64.dat")
	assert.NoError(t, mmfile.Touch(path))

	f := mmfile.Open(path)
	_, err := diskarray.Create64(f, 11)
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	f2 := mmfile.Open(path)
	defer f2.Close()
	a, err := diskarray.Start64(f2)
	assert.NoError(t, err)
	assert.Equal(t, uint32(11), a.BucketCount())
}
