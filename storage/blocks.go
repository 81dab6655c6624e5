// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/fault"
	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/record"
	"github.com/bitmark-inc/chaindb/seqlock"
	"github.com/bitmark-inc/chaindb/slabhash"
)

// maxTxPerBlock bounds blocks_rows' fixed record size. record.Manager
// requires a fixed slot width, so the per-block transaction-hash list is
// capped at this many hashes rather than open-ended.
const maxTxPerBlock = 8192

const blockHeaderSize = 32 + 32 + 32 + 4 + 4 + 4 // hash, prev, merkle, time, bits, nonce
const blockRecordSize = uint64(blockHeaderSize + 4 + maxTxPerBlock*32)

// BlocksTable is blocks_lookup + blocks_rows (spec.md §6).
type BlocksTable struct {
	lookup *slabhash.Table
	rows   *record.Manager
	lock   seqlock.SeqLock

	// height is the chain's current length, tracked independently of
	// rows.Count(): the record allocator's count is a monotonic high-water
	// mark that never decreases on Release, so it cannot stand in for the
	// height a Pop leaves behind.
	height uint64
}

// CreateBlocksTable initializes a fresh table.
func CreateBlocksTable(lookupBuckets, lookupSlabs, rowsFile *mmfile.File, bucketCount uint32) (*BlocksTable, error) {
	lookup, err := slabhash.Create(lookupBuckets, lookupSlabs, bucketCount, 32)
	if err != nil {
		return nil, err
	}
	rows, err := record.Create(rowsFile, blockRecordSize)
	if err != nil {
		return nil, err
	}
	return &BlocksTable{lookup: lookup, rows: rows}, nil
}

// StartBlocksTable opens an existing table, recovering the chain height from
// the record allocator's live count — record_count minus whatever is still
// queued on its free list from blocks unlinked before the last Sync.
func StartBlocksTable(lookupBuckets, lookupSlabs, rowsFile *mmfile.File) (*BlocksTable, error) {
	lookup, err := slabhash.Start(lookupBuckets, lookupSlabs, 32)
	if err != nil {
		return nil, err
	}
	rows, err := record.Start(rowsFile, blockRecordSize)
	if err != nil {
		return nil, err
	}
	return &BlocksTable{lookup: lookup, rows: rows, height: uint64(rows.LiveCount())}, nil
}

func encodeBlockRecord(header BlockHeader, txHashes []Hash) []byte {
	buf := make([]byte, blockRecordSize)
	offset := 0
	copy(buf[offset:], header.Hash[:])
	offset += 32
	copy(buf[offset:], header.PrevHash[:])
	offset += 32
	copy(buf[offset:], header.MerkleRoot[:])
	offset += 32
	binary.LittleEndian.PutUint32(buf[offset:], header.Timestamp)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], header.Bits)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], header.Nonce)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(txHashes)))
	offset += 4
	for _, h := range txHashes {
		copy(buf[offset:], h[:])
		offset += 32
	}
	return buf
}

func decodeBlockRecord(height uint64, data []byte) (BlockHeader, []Hash) {
	var header BlockHeader
	header.Height = height
	offset := 0
	copy(header.Hash[:], data[offset:offset+32])
	offset += 32
	copy(header.PrevHash[:], data[offset:offset+32])
	offset += 32
	copy(header.MerkleRoot[:], data[offset:offset+32])
	offset += 32
	header.Timestamp = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	header.Bits = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	header.Nonce = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	hashes := make([]Hash, count)
	for i := range hashes {
		copy(hashes[i][:], data[offset:offset+32])
		offset += 32
	}
	return header, hashes
}

// Store appends the block at the next height and indexes it by hash.
// Callers must call Store at consecutive, increasing heights; Pop's
// Release of the popped height keeps the free list aligned so the next
// Store reuses that exact index.
func (b *BlocksTable) Store(height uint64, header BlockHeader, txHashes []Hash) error {
	if len(txHashes) > maxTxPerBlock {
		return fault.ErrInvalidCount
	}

	b.lock.BeginWrite()
	defer b.lock.EndWrite()

	index, err := b.rows.NewRecord()
	if err != nil {
		return err
	}
	if uint64(index) != height {
		return fault.ErrCorruptedChain
	}
	copy(b.rows.Get(index), encodeBlockRecord(header, txHashes))

	_, err = b.lookup.Store(slabhash.Key(header.Hash[:]), 8, func(payload []byte) {
		binary.LittleEndian.PutUint64(payload, height)
	})
	if err != nil {
		return err
	}
	b.height = height + 1
	return nil
}

// GetByHash returns the block at the given hash, or ok == false.
func (b *BlocksTable) GetByHash(hash Hash) (header BlockHeader, txHashes []Hash, ok bool) {
	var result BlockHeader
	var hashes []Hash
	var found bool
	b.lock.Read(func() {
		payload := b.lookup.Get(slabhash.Key(hash[:]), 8)
		if payload == nil {
			found = false
			return
		}
		height := binary.LittleEndian.Uint64(payload)
		result, hashes = decodeBlockRecord(height, b.rows.Get(uint32(height)))
		found = true
	})
	return result, hashes, found
}

// GetByHeight returns the block stored at height, or ok == false if that
// height has never been written or has since been unlinked.
func (b *BlocksTable) GetByHeight(height uint64) (header BlockHeader, txHashes []Hash, ok bool) {
	var result BlockHeader
	var hashes []Hash
	var found bool
	b.lock.Read(func() {
		if height >= b.height {
			found = false
			return
		}
		result, hashes = decodeBlockRecord(height, b.rows.Get(uint32(height)))
		found = true
	})
	return result, hashes, found
}

// Height returns the chain's current length — one past the highest valid
// height.
func (b *BlocksTable) Height() uint64 {
	var height uint64
	b.lock.Read(func() {
		height = b.height
	})
	return height
}

// Unlink removes the block at height from the hash index and releases its
// record slot for reuse by the next Store.
func (b *BlocksTable) Unlink(height uint64, hash Hash) {
	b.lock.BeginWrite()
	defer b.lock.EndWrite()

	b.lookup.Unlink(slabhash.Key(hash[:]), 8)
	b.rows.Release(uint32(height))
	b.height = height
}

// Sync publishes both backing allocators.
func (b *BlocksTable) Sync() error {
	if err := b.lookup.Sync(); err != nil {
		return err
	}
	return b.rows.Sync()
}
