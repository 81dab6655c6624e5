// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/seqlock"
	"github.com/bitmark-inc/chaindb/slabhash"
)

// lengthPrefixSize + height + index precede the raw transaction bytes in
// every stored value, so Get can discover the total payload size with a
// cheap probe read before re-reading the full node.
const (
	lengthPrefixSize = 4
	txValueHeaderSize = lengthPrefixSize + 8 + 4 // length, height, index
)

// TransactionsTable is transactions: tx hash -> (height, index, raw tx)
// (spec.md §6).
type TransactionsTable struct {
	table *slabhash.Table
	lock  seqlock.SeqLock
}

// CreateTransactionsTable initializes a fresh table.
func CreateTransactionsTable(bucketFile, slabFile *mmfile.File, bucketCount uint32) (*TransactionsTable, error) {
	table, err := slabhash.Create(bucketFile, slabFile, bucketCount, 32)
	if err != nil {
		return nil, err
	}
	return &TransactionsTable{table: table}, nil
}

// StartTransactionsTable opens an existing table.
func StartTransactionsTable(bucketFile, slabFile *mmfile.File) (*TransactionsTable, error) {
	table, err := slabhash.Start(bucketFile, slabFile, 32)
	if err != nil {
		return nil, err
	}
	return &TransactionsTable{table: table}, nil
}

// Store records tx hash's location and raw serialized bytes.
func (t *TransactionsTable) Store(hash Hash, height uint64, index uint32, raw []byte) error {
	t.lock.BeginWrite()
	defer t.lock.EndWrite()
	total := uint64(txValueHeaderSize + len(raw))
	_, err := t.table.Store(slabhash.Key(hash[:]), total, func(p []byte) {
		binary.LittleEndian.PutUint32(p[0:4], uint32(total))
		binary.LittleEndian.PutUint64(p[4:12], height)
		binary.LittleEndian.PutUint32(p[12:16], index)
		copy(p[txValueHeaderSize:], raw)
	})
	return err
}

// Get returns the (height, index, raw bytes) stored for hash, if present.
// Unlike a fixed-payload table, the value's own length prefix is read
// first so the caller never needs to track transaction sizes externally.
func (t *TransactionsTable) Get(hash Hash) (height uint64, index uint32, raw []byte, ok bool) {
	t.lock.Read(func() {
		probe := t.table.Get(slabhash.Key(hash[:]), lengthPrefixSize)
		if probe == nil {
			ok = false
			return
		}
		total := uint64(binary.LittleEndian.Uint32(probe))

		payload := t.table.Get(slabhash.Key(hash[:]), total)
		height = binary.LittleEndian.Uint64(payload[4:12])
		index = binary.LittleEndian.Uint32(payload[12:16])
		raw = payload[txValueHeaderSize:]
		ok = true
	})
	return
}

// Unlink removes the record for hash.
func (t *TransactionsTable) Unlink(hash Hash) bool {
	t.lock.BeginWrite()
	defer t.lock.EndWrite()
	probe := t.table.Get(slabhash.Key(hash[:]), lengthPrefixSize)
	if probe == nil {
		return false
	}
	total := uint64(binary.LittleEndian.Uint32(probe))
	return t.table.Unlink(slabhash.Key(hash[:]), total)
}

// Sync publishes the backing slab manager.
func (t *TransactionsTable) Sync() error {
	return t.table.Sync()
}
