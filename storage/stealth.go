// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/hdbshard"
	"github.com/bitmark-inc/chaindb/mmfile"
)

// stealthScanKeySize is the byte width of the 32-bit stealth prefix used to
// route scans (spec.md §6, "Stealth row").
const stealthScanKeySize = 4

// stealthRowValueSize is ephemeral key + payment address hash + owning tx
// hash.
const stealthRowValueSize = 32 + 20 + 32

// stealthShardMaxEntries bounds how many block heights one shard can index
// before the index file would need to grow past its fixed allocation.
const stealthShardMaxEntries = 1 << 20

// DefaultStealthSettings fills in the fields fixed by the row layout above
// (scan key width, row value width) and takes the caller-configurable
// bucket/sizing fields from settings.
func DefaultStealthSettings(settings hdbshard.Settings) hdbshard.Settings {
	settings.TotalKeySize = stealthScanKeySize
	settings.ShardedBitsize = 0
	settings.RowValueSize = stealthRowValueSize
	if settings.BucketBitsize == 0 {
		settings.BucketBitsize = 8
	}
	if settings.ShardMaxEntries == 0 {
		settings.ShardMaxEntries = stealthShardMaxEntries
	}
	return settings
}

// StealthRow is one stealth-payment notification: the ephemeral key a
// watcher needs to derive the payment address, the address hash itself, and
// the transaction that paid it.
type StealthRow struct {
	EphemeralKey [32]byte
	AddressHash  AddressHash
	TxHash       Hash
}

func encodeStealthRow(row StealthRow) []byte {
	buf := make([]byte, stealthRowValueSize)
	copy(buf[0:32], row.EphemeralKey[:])
	copy(buf[32:52], row.AddressHash[:])
	copy(buf[52:84], row.TxHash[:])
	return buf
}

func decodeStealthRow(buf []byte) StealthRow {
	var row StealthRow
	copy(row.EphemeralKey[:], buf[0:32])
	copy(row.AddressHash[:], buf[32:52])
	copy(row.TxHash[:], buf[52:84])
	return row
}

// StealthTable is stealth_index + stealth_rows: a height-addressable,
// prefix-scannable log of stealth payment notifications (spec.md §6).
type StealthTable struct {
	shard *hdbshard.Shard
}

// CreateStealthTable initializes a fresh table.
func CreateStealthTable(indexFile, rowsFile *mmfile.File, settings hdbshard.Settings) (*StealthTable, error) {
	shard, err := hdbshard.Create(indexFile, rowsFile, DefaultStealthSettings(settings))
	if err != nil {
		return nil, err
	}
	return &StealthTable{shard: shard}, nil
}

// StartStealthTable opens an existing table.
func StartStealthTable(indexFile, rowsFile *mmfile.File, settings hdbshard.Settings) (*StealthTable, error) {
	shard, err := hdbshard.Start(indexFile, rowsFile, DefaultStealthSettings(settings))
	if err != nil {
		return nil, err
	}
	return &StealthTable{shard: shard}, nil
}

// Add buffers a stealth notification keyed by its 32-bit scan prefix; it
// becomes durable on the next Sync for the containing block's height.
func (s *StealthTable) Add(prefix uint32, row StealthRow) {
	scanKey := make([]byte, stealthScanKeySize)
	binary.BigEndian.PutUint32(scanKey, prefix)
	s.shard.Add(scanKey, encodeStealthRow(row))
}

// Sync appends every row buffered since the last Sync as height's entry.
func (s *StealthTable) Sync(height int) error {
	return s.shard.Sync(height)
}

// Unlink truncates the table so only entries below height remain.
func (s *StealthTable) Unlink(height int) error {
	return s.shard.Unlink(height)
}

// Scan invokes fn for every row at or after fromHeight whose scan prefix
// shares the top prefixBits bits of prefix.
func (s *StealthTable) Scan(prefixBits int, prefix uint32, fromHeight int, fn func(StealthRow)) {
	key := make([]byte, stealthScanKeySize)
	binary.BigEndian.PutUint32(key, prefix)
	s.shard.Scan(hdbshard.Prefix{Bits: prefixBits, Bytes: key}, func(value []byte) {
		fn(decodeStealthRow(value))
	}, fromHeight)
}
