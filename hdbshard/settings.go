// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hdbshard

// Settings configures one shard (spec.md §4.9).
type Settings struct {
	// TotalKeySize is the full scan-key size in bytes before any bits are
	// peeled off by outer routing.
	TotalKeySize int
	// ShardedBitsize is the number of high bits already consumed by outer
	// routing (choosing which shard file to use) and therefore not stored
	// in this shard's rows.
	ShardedBitsize int
	// BucketBitsize selects NumberBuckets() = 2^BucketBitsize entry-local
	// buckets for the jump-in index.
	BucketBitsize int
	// RowValueSize is the fixed size in bytes of each row's value.
	RowValueSize int
	// ShardMaxEntries upper-bounds the number of heights this shard can
	// index, fixing the index file's size.
	ShardMaxEntries int
}

// ScanBitsize is the number of scan-key bits actually stored per row.
func (s Settings) ScanBitsize() int {
	return s.TotalKeySize*8 - s.ShardedBitsize
}

// ScanSize is the byte width of a stored scan key.
func (s Settings) ScanSize() int {
	return (s.ScanBitsize() + 7) / 8
}

// NumberBuckets is the number of entry-local buckets in the jump-in index.
func (s Settings) NumberBuckets() int {
	return 1 << uint(s.BucketBitsize)
}

// RowSize is the byte width of one stored row: scan key plus value.
func (s Settings) RowSize() int {
	return s.ScanSize() + s.RowValueSize
}

func (s Settings) entryHeaderSize() int {
	return 2 + 2*s.NumberBuckets()
}

func (s Settings) entrySize(rowCount int) int {
	return s.entryHeaderSize() + rowCount*s.RowSize()
}
