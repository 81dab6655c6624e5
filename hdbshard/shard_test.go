// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hdbshard_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chaindb/hdbshard"
	"github.com/bitmark-inc/chaindb/mmfile"
)

func openShard(t *testing.T, settings hdbshard.Settings) *hdbshard.Shard {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "stealth_index")
	rowsPath := filepath.Join(dir, "stealth_rows")
	assert.NoError(t, mmfile.Touch(indexPath))
	assert.NoError(t, mmfile.Touch(rowsPath))
	indexFile := mmfile.Open(indexPath)
	rowsFile := mmfile.Open(rowsPath)
	t.Cleanup(func() { indexFile.Close(); rowsFile.Close() })

	shard, err := hdbshard.Create(indexFile, rowsFile, settings)
	assert.NoError(t, err)
	return shard
}

func testSettings() hdbshard.Settings {
	return hdbshard.Settings{
		TotalKeySize:    4,
		ShardedBitsize:  0,
		BucketBitsize:   2,
		RowValueSize:    1,
		ShardMaxEntries: 16,
	}
}

func scanKey(leadingByte byte) []byte {
	return []byte{leadingByte, 0, 0, 0}
}

func collect(shard *hdbshard.Shard, bits int, leadingByte byte, fromHeight int) []byte {
	var got []byte
	shard.Scan(hdbshard.Prefix{Bits: bits, Bytes: []byte{leadingByte}}, func(value []byte) {
		got = append(got, value[0])
	}, fromHeight)
	return got
}

// S3 — shard scan (spec.md §8).
func TestScanReturnsBucketMatchingRowsInOrder(t *testing.T) {
	shard := openShard(t, testSettings())

	shard.Add(scanKey(0b00010000), []byte{'a'})
	shard.Add(scanKey(0b01010000), []byte{'b'})
	shard.Add(scanKey(0b01110000), []byte{'c'})
	shard.Add(scanKey(0b11000000), []byte{'d'})
	assert.NoError(t, shard.Sync(0))

	got := collect(shard, 2, 0b01000000, 0)
	assert.Equal(t, []byte{'b', 'c'}, got)
}

// S4 — shard unlink (spec.md §8).
func TestUnlinkTruncatesHeight(t *testing.T) {
	shard := openShard(t, testSettings())

	shard.Add(scanKey(0b00010000), []byte{'a'})
	shard.Add(scanKey(0b01010000), []byte{'b'})
	shard.Add(scanKey(0b01110000), []byte{'c'})
	shard.Add(scanKey(0b11000000), []byte{'d'})
	assert.NoError(t, shard.Sync(0))

	shard.Add(scanKey(0b01100000), []byte{'x'})
	assert.NoError(t, shard.Sync(1))

	assert.Equal(t, []byte{'b', 'c', 'x'}, collect(shard, 2, 0b01000000, 0))

	assert.NoError(t, shard.Unlink(1))
	assert.Equal(t, []byte{'b', 'c'}, collect(shard, 2, 0b01000000, 0))
}

// Invariant 11 (spec.md §8): unlink(0) is rejected.
func TestUnlinkZeroIsRejected(t *testing.T) {
	shard := openShard(t, testSettings())
	shard.Add(scanKey(0b00010000), []byte{'a'})
	assert.NoError(t, shard.Sync(0))

	assert.Error(t, shard.Unlink(0))
}

// Invariant 10 (spec.md §8): a zero-bit prefix visits every row.
func TestScanWithEmptyPrefixVisitsEveryRow(t *testing.T) {
	shard := openShard(t, testSettings())
	shard.Add(scanKey(0b00010000), []byte{'a'})
	shard.Add(scanKey(0b01010000), []byte{'b'})
	shard.Add(scanKey(0b01110000), []byte{'c'})
	shard.Add(scanKey(0b11000000), []byte{'d'})
	assert.NoError(t, shard.Sync(0))

	got := collect(shard, 0, 0, 0)
	assert.Equal(t, []byte{'a', 'b', 'c', 'd'}, got)
}
