// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package recordhash_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/recordhash"
)

func openPair(t *testing.T) (*mmfile.File, *mmfile.File) {
	dir := t.TempDir()
	bucketPath := filepath.Join(dir, "lookup")
	recordPath := filepath.Join(dir, "rows")
	assert.NoError(t, mmfile.Touch(bucketPath))
	assert.NoError(t, mmfile.Touch(recordPath))
	return mmfile.Open(bucketPath), mmfile.Open(recordPath)
}

func TestStoreGetUpdateUnlink(t *testing.T) {
	bucketFile, recordFile := openPair(t)
	defer bucketFile.Close()
	defer recordFile.Close()

	table, err := recordhash.Create(bucketFile, recordFile, 16, 7, 4)
	assert.NoError(t, err)

	key := recordhash.Key("outpnt1")
	_, err = table.Store(key, func(p []byte) { copy(p, []byte{1, 2, 3, 4}) })
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, table.Get(key))

	assert.True(t, table.Update(key, func(p []byte) { copy(p, []byte{9, 9, 9, 9}) }))
	assert.Equal(t, []byte{9, 9, 9, 9}, table.Get(key))

	assert.True(t, table.Unlink(key))
	assert.Nil(t, table.Get(key))
	assert.False(t, table.Update(key, func(p []byte) {}))
}

func TestUnlinkReleasesRecordForReuse(t *testing.T) {
	bucketFile, recordFile := openPair(t)
	defer bucketFile.Close()
	defer recordFile.Close()

	table, err := recordhash.Create(bucketFile, recordFile, 4, 7, 4)
	assert.NoError(t, err)

	k1 := recordhash.Key("outpnt1")
	k2 := recordhash.Key("outpnt2")
	idx1, err := table.Store(k1, func(p []byte) {})
	assert.NoError(t, err)
	assert.True(t, table.Unlink(k1))

	idx2, err := table.Store(k2, func(p []byte) {})
	assert.NoError(t, err)
	assert.Equal(t, idx1, idx2, "free record must be reused before growing")
}
