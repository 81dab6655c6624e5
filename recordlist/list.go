// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package recordlist

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/record"
)

// NoNext terminates a list; re-exported from record for callers that never
// need the rest of that package's surface.
const NoNext = record.NoNext

const nextSize = 4

// List is record_list: a singly-linked list of fixed-size payloads.
type List struct {
	records      *record.Manager
	payloadSize  uint64
}

func nodeSize(payloadSize uint64) uint64 { return nextSize + payloadSize }

// Create initializes a fresh list over listFile.
func Create(listFile *mmfile.File, payloadSize uint64) (*List, error) {
	records, err := record.Create(listFile, nodeSize(payloadSize))
	if err != nil {
		return nil, err
	}
	return &List{records: records, payloadSize: payloadSize}, nil
}

// Start opens an existing list.
func Start(listFile *mmfile.File, payloadSize uint64) (*List, error) {
	records, err := record.Start(listFile, nodeSize(payloadSize))
	if err != nil {
		return nil, err
	}
	return &List{records: records, payloadSize: payloadSize}, nil
}

// NewNode allocates a node, writes its payload via writeFn, sets its next
// pointer to nextIndex, and returns the new node's index.
func (l *List) NewNode(writeFn func(payload []byte), nextIndex uint32) (uint32, error) {
	index, err := l.records.NewRecord()
	if err != nil {
		return 0, err
	}
	node := l.records.Get(index)
	binary.LittleEndian.PutUint32(node[0:nextSize], nextIndex)
	writeFn(node[nextSize:])
	return index, nil
}

// Next returns the index following index, or NoNext.
func (l *List) Next(index uint32) uint32 {
	node := l.records.Get(index)
	return binary.LittleEndian.Uint32(node[0:nextSize])
}

// Get returns the payload bytes at index.
func (l *List) Get(index uint32) []byte {
	return l.records.Get(index)[nextSize:]
}

// Release returns index's node to the free list.
func (l *List) Release(index uint32) {
	l.records.Release(index)
}

// Sync publishes the backing record manager's state.
func (l *List) Sync() error {
	return l.records.Sync()
}
