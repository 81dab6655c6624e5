// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/recordhash"
	"github.com/bitmark-inc/chaindb/seqlock"
)

const outpointSize = 32 + 4

func encodeOutpoint(o Outpoint) []byte {
	buf := make([]byte, outpointSize)
	copy(buf[0:32], o.Hash[:])
	buf[32] = byte(o.Index)
	buf[33] = byte(o.Index >> 8)
	buf[34] = byte(o.Index >> 16)
	buf[35] = byte(o.Index >> 24)
	return buf
}

func decodeOutpoint(buf []byte) Outpoint {
	var o Outpoint
	copy(o.Hash[:], buf[0:32])
	o.Index = uint32(buf[32]) | uint32(buf[33])<<8 | uint32(buf[34])<<16 | uint32(buf[35])<<24
	return o
}

// SpendsTable is spends: outpoint -> spending input point (spec.md §6).
type SpendsTable struct {
	table *recordhash.Table
	lock  seqlock.SeqLock
}

// CreateSpendsTable initializes a fresh table.
func CreateSpendsTable(bucketFile, recordFile *mmfile.File, bucketCount uint32) (*SpendsTable, error) {
	table, err := recordhash.Create(bucketFile, recordFile, bucketCount, outpointSize, outpointSize)
	if err != nil {
		return nil, err
	}
	return &SpendsTable{table: table}, nil
}

// StartSpendsTable opens an existing table.
func StartSpendsTable(bucketFile, recordFile *mmfile.File) (*SpendsTable, error) {
	table, err := recordhash.Start(bucketFile, recordFile, outpointSize, outpointSize)
	if err != nil {
		return nil, err
	}
	return &SpendsTable{table: table}, nil
}

// Store records that outpoint was spent by spender.
func (s *SpendsTable) Store(outpoint, spender Outpoint) error {
	s.lock.BeginWrite()
	defer s.lock.EndWrite()
	_, err := s.table.Store(recordhash.Key(encodeOutpoint(outpoint)), func(p []byte) {
		copy(p, encodeOutpoint(spender))
	})
	return err
}

// Get returns the spender of outpoint, if any.
func (s *SpendsTable) Get(outpoint Outpoint) (Outpoint, bool) {
	var result Outpoint
	var found bool
	s.lock.Read(func() {
		payload := s.table.Get(recordhash.Key(encodeOutpoint(outpoint)))
		if payload == nil {
			found = false
			return
		}
		result = decodeOutpoint(payload)
		found = true
	})
	return result, found
}

// Unlink removes the spend record for outpoint.
func (s *SpendsTable) Unlink(outpoint Outpoint) bool {
	s.lock.BeginWrite()
	defer s.lock.EndWrite()
	return s.table.Unlink(recordhash.Key(encodeOutpoint(outpoint)))
}

// Sync publishes the backing record manager.
func (s *SpendsTable) Sync() error {
	return s.table.Sync()
}
