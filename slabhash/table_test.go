// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package slabhash_test

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/slabhash"
)

func openPair(t *testing.T) (*mmfile.File, *mmfile.File) {
	dir := t.TempDir()
	bucketPath := filepath.Join(dir, "lookup")
	slabPath := filepath.Join(dir, "rows")
	assert.NoError(t, mmfile.Touch(bucketPath))
	assert.NoError(t, mmfile.Touch(slabPath))
	return mmfile.Open(bucketPath), mmfile.Open(slabPath)
}

// S1 — slab hash roundtrip (spec.md §8).
func TestStoreThenGetRoundtrip(t *testing.T) {
	bucketFile, slabFile := openPair(t)
	defer bucketFile.Close()
	defer slabFile.Close()

	table, err := slabhash.Create(bucketFile, slabFile, 100, 32)
	assert.NoError(t, err)

	hashed := sha256.Sum256([]byte("hello"))
	key := slabhash.Key(hashed[:])
	value := []byte{0x01, 0x02, 0x03, 0x04}
	_, err = table.Store(key, 4, func(payload []byte) { copy(payload, value) })
	assert.NoError(t, err)

	got := table.Get(key, 4)
	assert.Equal(t, value, got)
}

// S2 — chain collision (spec.md §8).
func TestUnlinkMiddleOfChainPreservesNeighbors(t *testing.T) {
	bucketFile, slabFile := openPair(t)
	defer bucketFile.Close()
	defer slabFile.Close()

	table, err := slabhash.Create(bucketFile, slabFile, 1, 4)
	assert.NoError(t, err)

	k1, k2, k3 := slabhash.Key("K1!!"), slabhash.Key("K2!!"), slabhash.Key("K3!!")
	store := func(k slabhash.Key, v string) {
		_, err := table.Store(k, uint64(len(v)), func(payload []byte) { copy(payload, v) })
		assert.NoError(t, err)
	}
	store(k1, "a")
	store(k2, "bb")
	store(k3, "ccc")

	assert.Equal(t, []byte("bb"), table.Get(k2, 2))
	assert.True(t, table.Unlink(k2, 2))
	assert.Nil(t, table.Get(k2, 2))
	assert.Equal(t, []byte("a"), table.Get(k1, 1))
	assert.Equal(t, []byte("ccc"), table.Get(k3, 3))
}

func TestLaterStoreShadowsEarlierForSameKey(t *testing.T) {
	bucketFile, slabFile := openPair(t)
	defer bucketFile.Close()
	defer slabFile.Close()

	table, err := slabhash.Create(bucketFile, slabFile, 10, 4)
	assert.NoError(t, err)

	key := slabhash.Key("dupe")
	_, err = table.Store(key, 1, func(p []byte) { p[0] = 'x' })
	assert.NoError(t, err)
	_, err = table.Store(key, 1, func(p []byte) { p[0] = 'y' })
	assert.NoError(t, err)

	assert.Equal(t, []byte{'y'}, table.Get(key, 1))
}
