// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package recordhash

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/diskarray"
	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/record"
)

// Key is any fixed-width key type usable with Table.
type Key []byte

const nextSize = 4

const terminator = diskarray.NoRecord

// Table is record_hash_table<K> (spec.md §4.6).
type Table struct {
	buckets *diskarray.Array32
	records *record.Manager
	keySize uint64
}

func recordSize(keySize, payloadSize uint64) uint64 {
	return keySize + nextSize + payloadSize
}

// Create initializes a new table with bucketCount buckets, keys of keySize
// bytes, and a fresh backing record manager over recordFile holding
// payloadSize-byte payloads.
func Create(bucketFile, recordFile *mmfile.File, bucketCount uint32, keySize, payloadSize uint64) (*Table, error) {
	buckets, err := diskarray.Create32(bucketFile, bucketCount)
	if err != nil {
		return nil, err
	}
	records, err := record.Create(recordFile, recordSize(keySize, payloadSize))
	if err != nil {
		return nil, err
	}
	return &Table{buckets: buckets, records: records, keySize: keySize}, nil
}

// Start opens an existing table.
func Start(bucketFile, recordFile *mmfile.File, keySize, payloadSize uint64) (*Table, error) {
	buckets, err := diskarray.Start32(bucketFile)
	if err != nil {
		return nil, err
	}
	records, err := record.Start(recordFile, recordSize(keySize, payloadSize))
	if err != nil {
		return nil, err
	}
	return &Table{buckets: buckets, records: records, keySize: keySize}, nil
}

func (t *Table) bucketIndex(key Key) uint32 {
	n := len(key)
	if n > 8 {
		n = 8
	}
	var fingerprint uint64
	for i := 0; i < n; i++ {
		fingerprint |= uint64(key[i]) << (8 * i)
	}
	return uint32(fingerprint % uint64(t.buckets.BucketCount()))
}

func (t *Table) keyOf(node []byte) []byte    { return node[0:t.keySize] }
func (t *Table) nextOf(node []byte) uint32   { return binary.LittleEndian.Uint32(node[t.keySize : t.keySize+nextSize]) }
func (t *Table) setNext(node []byte, v uint32) {
	binary.LittleEndian.PutUint32(node[t.keySize:t.keySize+nextSize], v)
}
func (t *Table) payloadOf(node []byte) []byte { return node[t.keySize+nextSize:] }

// Store always appends a fresh record for key, linking it in front of the
// bucket's current chain.
func (t *Table) Store(key Key, writeFn func(payload []byte)) (uint32, error) {
	bucket := t.bucketIndex(key)
	oldHead := t.buckets.Read(bucket)

	index, err := t.records.NewRecord()
	if err != nil {
		return 0, err
	}
	node := t.records.Get(index)
	copy(t.keyOf(node), key)
	t.setNext(node, oldHead)
	writeFn(t.payloadOf(node))

	t.buckets.Write(bucket, index)
	return index, nil
}

// Get returns the payload of the first chain node matching key, or nil.
func (t *Table) Get(key Key) []byte {
	index := t.buckets.Read(t.bucketIndex(key))
	for index != terminator {
		node := t.records.Get(index)
		if string(t.keyOf(node)) == string(key) {
			return t.payloadOf(node)
		}
		index = t.nextOf(node)
	}
	return nil
}

// Update overwrites the payload of the first chain node matching key.
// Returns false if key is absent.
func (t *Table) Update(key Key, writeFn func(payload []byte)) bool {
	index := t.buckets.Read(t.bucketIndex(key))
	for index != terminator {
		node := t.records.Get(index)
		if string(t.keyOf(node)) == string(key) {
			writeFn(t.payloadOf(node))
			return true
		}
		index = t.nextOf(node)
	}
	return false
}

// Unlink splices out the first chain node matching key and releases its
// record to the free list. Returns false if key was not present.
func (t *Table) Unlink(key Key) bool {
	bucket := t.bucketIndex(key)
	index := t.buckets.Read(bucket)
	prev := terminator

	for index != terminator {
		node := t.records.Get(index)
		next := t.nextOf(node)
		if string(t.keyOf(node)) == string(key) {
			if prev != terminator {
				prevNode := t.records.Get(prev)
				t.setNext(prevNode, next)
			} else {
				t.buckets.Write(bucket, next)
			}
			t.records.Release(index)
			return true
		}
		prev = index
		index = next
	}
	return false
}

// Sync publishes the backing record manager's count and free-list head.
func (t *Table) Sync() error {
	return t.records.Sync()
}
