// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package multimap

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/recordhash"
	"github.com/bitmark-inc/chaindb/recordlist"
)

const headSize = 4

// Multimap is record_multimap<K>.
type Multimap struct {
	heads *recordhash.Table
	list  *recordlist.List
}

// Create initializes a new multimap: heads over (bucketFile, headFile),
// values over listFile.
func Create(bucketFile, headFile, listFile *mmfile.File, bucketCount uint32, keySize, valueSize uint64) (*Multimap, error) {
	heads, err := recordhash.Create(bucketFile, headFile, bucketCount, keySize, headSize)
	if err != nil {
		return nil, err
	}
	list, err := recordlist.Create(listFile, valueSize)
	if err != nil {
		return nil, err
	}
	return &Multimap{heads: heads, list: list}, nil
}

// Start opens an existing multimap.
func Start(bucketFile, headFile, listFile *mmfile.File, keySize, valueSize uint64) (*Multimap, error) {
	heads, err := recordhash.Start(bucketFile, headFile, keySize, headSize)
	if err != nil {
		return nil, err
	}
	list, err := recordlist.Start(listFile, valueSize)
	if err != nil {
		return nil, err
	}
	return &Multimap{heads: heads, list: list}, nil
}

// Add prepends a new value onto key's list — creating the hash entry if key
// is not yet present.
func (m *Multimap) Add(key recordhash.Key, writeFn func(payload []byte)) error {
	existingHead := m.heads.Get(key)
	if existingHead == nil {
		nodeIndex, err := m.list.NewNode(writeFn, recordlist.NoNext)
		if err != nil {
			return err
		}
		_, err = m.heads.Store(key, func(p []byte) { binary.LittleEndian.PutUint32(p, nodeIndex) })
		return err
	}

	prevHead := binary.LittleEndian.Uint32(existingHead)
	nodeIndex, err := m.list.NewNode(writeFn, prevHead)
	if err != nil {
		return err
	}
	m.heads.Update(key, func(p []byte) { binary.LittleEndian.PutUint32(p, nodeIndex) })
	return nil
}

// Lookup returns the head index of key's value list, or recordlist.NoNext
// if key is absent.
func (m *Multimap) Lookup(key recordhash.Key) uint32 {
	head := m.heads.Get(key)
	if head == nil {
		return recordlist.NoNext
	}
	return binary.LittleEndian.Uint32(head)
}

// Value returns the payload at a list index obtained from Lookup or Next.
func (m *Multimap) Value(index uint32) []byte {
	return m.list.Get(index)
}

// Next returns the list index following index.
func (m *Multimap) Next(index uint32) uint32 {
	return m.list.Next(index)
}

// DeleteLast removes the head node of key's value list (LIFO). If that was
// the only value, the hash entry itself is removed too.
func (m *Multimap) DeleteLast(key recordhash.Key) bool {
	head := m.heads.Get(key)
	if head == nil {
		return false
	}
	headIndex := binary.LittleEndian.Uint32(head)
	next := m.list.Next(headIndex)
	m.list.Release(headIndex)

	if next == recordlist.NoNext {
		m.heads.Unlink(key)
	} else {
		m.heads.Update(key, func(p []byte) { binary.LittleEndian.PutUint32(p, next) })
	}
	return true
}

// Sync publishes both the hash table and the backing value list.
func (m *Multimap) Sync() error {
	if err := m.heads.Sync(); err != nil {
		return err
	}
	return m.list.Sync()
}
