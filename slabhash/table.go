// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package slabhash

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/diskarray"
	"github.com/bitmark-inc/chaindb/fault"
	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/slab"
)

// Key is any fixed-width key type usable with Table. Callers provide the
// byte encoding; Table never interprets key bytes beyond equality and the
// little-endian fingerprint used for bucket routing.
type Key []byte

const nextSize = 8

// terminator is both the empty-bucket value and the chain-next terminator:
// offset 0 is never an allocated slab (see package slab), so it safely
// double-duties as "no entry".
const terminator uint64 = 0

// Table is slab_hash_table<K> (spec.md §4.5).
type Table struct {
	buckets *diskarray.Array64
	slabs   *slab.Manager
	keySize uint64
}

// Create initializes a new table with bucketCount buckets, keys of keySize
// bytes, and a fresh backing slab manager over slabFile.
func Create(bucketFile, slabFile *mmfile.File, bucketCount uint32, keySize uint64) (*Table, error) {
	buckets, err := diskarray.CreateFilled64(bucketFile, bucketCount, terminator)
	if err != nil {
		return nil, err
	}
	slabs, err := slab.Create(slabFile)
	if err != nil {
		return nil, err
	}
	return &Table{buckets: buckets, slabs: slabs, keySize: keySize}, nil
}

// Start opens an existing table.
func Start(bucketFile, slabFile *mmfile.File, keySize uint64) (*Table, error) {
	buckets, err := diskarray.Start64(bucketFile)
	if err != nil {
		return nil, err
	}
	slabs, err := slab.Start(slabFile)
	if err != nil {
		return nil, err
	}
	return &Table{buckets: buckets, slabs: slabs, keySize: keySize}, nil
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

func (t *Table) nodeSize(valueSize uint64) uint64 {
	return t.keySize + nextSize + valueSize
}

// Store allocates a new chain node for key, invokes writeFn with a slice of
// length valueSize to fill the payload, links it in front of the bucket's
// current chain, and returns the new slab offset. Earlier entries for the
// same key are shadowed, not removed (spec.md §4.5).
func (t *Table) Store(key Key, valueSize uint64, writeFn func(payload []byte)) (uint64, error) {
	bucket := t.bucketIndex(key)
	oldHead := t.buckets.Read(bucket)

	offset, err := t.slabs.NewSlab(t.nodeSize(valueSize))
	if err != nil {
		return 0, err
	}
	node := t.slabs.Bytes(offset, t.nodeSize(valueSize))
	copy(node[0:t.keySize], key)
	binary.LittleEndian.PutUint64(node[t.keySize:t.keySize+nextSize], oldHead)
	writeFn(node[t.keySize+nextSize:])

	t.buckets.Write(bucket, offset)
	return offset, nil
}

// Get walks the chain for key's bucket and returns the payload bytes of the
// first matching node, or nil if absent. valueSize must be the size used at
// Store time for this key.
func (t *Table) Get(key Key, valueSize uint64) []byte {
	offset := t.buckets.Read(t.bucketIndex(key))
	for offset != terminator {
		node := t.slabs.Bytes(offset, t.nodeSize(valueSize))
		if string(node[0:t.keySize]) == string(key) {
			return node[t.keySize+nextSize:]
		}
		offset = binary.LittleEndian.Uint64(node[t.keySize : t.keySize+nextSize])
	}
	return nil
}

// Unlink removes the first chain node matching key by splicing its next
// pointer into its predecessor (or the bucket head). The orphaned slab
// bytes are not reclaimed. Returns false if key was not present.
func (t *Table) Unlink(key Key, valueSize uint64) bool {
	bucket := t.bucketIndex(key)
	offset := t.buckets.Read(bucket)
	prev := uint64(0)
	hasPrev := false

	for offset != terminator {
		node := t.slabs.Bytes(offset, t.nodeSize(valueSize))
		next := binary.LittleEndian.Uint64(node[t.keySize : t.keySize+nextSize])
		if string(node[0:t.keySize]) == string(key) {
			if hasPrev {
				prevNode := t.slabs.Bytes(prev, t.nodeSize(valueSize))
				binary.LittleEndian.PutUint64(prevNode[t.keySize:t.keySize+nextSize], next)
			} else {
				t.buckets.Write(bucket, next)
			}
			return true
		}
		prev = offset
		hasPrev = true
		offset = next
	}
	return false
}

// Sync publishes the backing slab manager's payload_end.
func (t *Table) Sync() error {
	return t.slabs.Sync()
}

// ErrCorruptedChain re-exports fault.ErrCorruptedChain. The chain walks in
// this package (Get, Unlink) do not compare next pointers against the slab
// manager's payload_end and never return it.
var ErrCorruptedChain = fault.ErrCorruptedChain
