// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/multimap"
	"github.com/bitmark-inc/chaindb/recordhash"
	"github.com/bitmark-inc/chaindb/recordlist"
	"github.com/bitmark-inc/chaindb/seqlock"
)

const historyRowSize = outpointSize + 8 + 8 + 1 // point, height, value, kind

func encodeHistoryRow(row HistoryRow) []byte {
	buf := make([]byte, historyRowSize)
	copy(buf[0:outpointSize], encodeOutpoint(row.Point))
	binary.LittleEndian.PutUint64(buf[outpointSize:outpointSize+8], row.Height)
	binary.LittleEndian.PutUint64(buf[outpointSize+8:outpointSize+16], row.Value)
	buf[outpointSize+16] = byte(row.Kind)
	return buf
}

func decodeHistoryRow(buf []byte) HistoryRow {
	return HistoryRow{
		Point:  decodeOutpoint(buf[0:outpointSize]),
		Height: binary.LittleEndian.Uint64(buf[outpointSize : outpointSize+8]),
		Value:  binary.LittleEndian.Uint64(buf[outpointSize+8 : outpointSize+16]),
		Kind:   HistoryKind(buf[outpointSize+16]),
	}
}

// HistoryTable is history_lookup + history_rows: address hash -> LIFO list
// of spend/output rows (spec.md §6).
type HistoryTable struct {
	rows *multimap.Multimap
	lock seqlock.SeqLock
}

// CreateHistoryTable initializes a fresh table.
func CreateHistoryTable(bucketFile, headFile, listFile *mmfile.File, bucketCount uint32) (*HistoryTable, error) {
	rows, err := multimap.Create(bucketFile, headFile, listFile, bucketCount, 20, historyRowSize)
	if err != nil {
		return nil, err
	}
	return &HistoryTable{rows: rows}, nil
}

// StartHistoryTable opens an existing table.
func StartHistoryTable(bucketFile, headFile, listFile *mmfile.File) (*HistoryTable, error) {
	rows, err := multimap.Start(bucketFile, headFile, listFile, 20, historyRowSize)
	if err != nil {
		return nil, err
	}
	return &HistoryTable{rows: rows}, nil
}

// Add prepends row onto addressHash's history list.
func (h *HistoryTable) Add(addressHash AddressHash, row HistoryRow) error {
	h.lock.BeginWrite()
	defer h.lock.EndWrite()
	return h.rows.Add(recordhash.Key(addressHash[:]), func(p []byte) {
		copy(p, encodeHistoryRow(row))
	})
}

// Rows returns every row currently stored for addressHash, most recently
// added first.
func (h *HistoryTable) Rows(addressHash AddressHash) []HistoryRow {
	var rows []HistoryRow
	h.lock.Read(func() {
		rows = nil
		index := h.rows.Lookup(recordhash.Key(addressHash[:]))
		for index != recordlist.NoNext {
			rows = append(rows, decodeHistoryRow(h.rows.Value(index)))
			index = h.rows.Next(index)
		}
	})
	return rows
}

// DeleteLast removes the most recently added row for addressHash (LIFO),
// mirroring a block's reversed pop order.
func (h *HistoryTable) DeleteLast(addressHash AddressHash) bool {
	h.lock.BeginWrite()
	defer h.lock.EndWrite()
	return h.rows.DeleteLast(recordhash.Key(addressHash[:]))
}

// Sync publishes the backing hash table and value list.
func (h *HistoryTable) Sync() error {
	return h.rows.Sync()
}
