// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmfile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chaindb/mmfile"
)

func tempPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "test.dat")
}

func TestOpenMissingFileIsInvalid(t *testing.T) {
	f := mmfile.Open(tempPath(t))
	defer f.Close()

	assert.False(t, f.Valid(), "missing file must yield an invalid mapping")
	assert.Nil(t, f.Data(), "invalid mapping must return nil data")
}

func TestTouchThenOpen(t *testing.T) {
	path := tempPath(t)
	assert.NoError(t, mmfile.Touch(path))

	f := mmfile.Open(path)
	defer f.Close()

	assert.True(t, f.Valid())
	assert.Equal(t, int64(1), f.Size())
	assert.Equal(t, []byte{'H'}, f.Data())
}

func TestResizePreservesBytesAndZeroFillsTail(t *testing.T) {
	path := tempPath(t)
	assert.NoError(t, mmfile.Touch(path))

	f := mmfile.Open(path)
	defer f.Close()

	assert.True(t, f.Resize(16))
	assert.Equal(t, int64(16), f.Size())

	data := f.Data()
	assert.Equal(t, byte('H'), data[0], "original byte must survive the grow")
	for i := 1; i < 16; i++ {
		assert.Equalf(t, byte(0), data[i], "tail byte %d must be zero-filled", i)
	}
}

func TestResizeNeverShrinks(t *testing.T) {
	path := tempPath(t)
	assert.NoError(t, mmfile.Touch(path))

	f := mmfile.Open(path)
	defer f.Close()

	assert.True(t, f.Resize(64))
	assert.True(t, f.Resize(8), "a smaller request is a no-op success, not a shrink")
	assert.Equal(t, int64(64), f.Size())
}

func TestDirLockRejectsSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db-lock")

	first, err := mmfile.Lock(path)
	assert.NoError(t, err)
	defer first.Unlock()

	_, err = mmfile.Lock(path)
	assert.Error(t, err, "a second holder must fail to acquire the lock")
}
