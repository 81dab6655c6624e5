// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/fault"
	"github.com/bitmark-inc/chaindb/mmfile"
)

// NoNext is the free-list terminator, matching the record-hash chain
// terminator (spec.md §3 "record variant").
const NoNext uint32 = 0xFFFFFFFF

const (
	countOffset    = 0
	freeHeadOffset = 4
	headerSize     = 8
)

// Manager is the bump-pointer fixed-size allocator (spec.md §4.3).
type Manager struct {
	file       *mmfile.File
	recordSize uint64
	count      uint32
	freeHead   uint32
}

// Create initializes a brand-new record file for records of recordSize
// bytes each.
func Create(file *mmfile.File, recordSize uint64) (*Manager, error) {
	if !file.Valid() {
		return nil, fault.ErrInvalidMapping
	}
	if !file.Resize(headerSize) {
		return nil, fault.ErrResizeFailed
	}
	binary.LittleEndian.PutUint32(file.Data()[countOffset:countOffset+4], 0)
	binary.LittleEndian.PutUint32(file.Data()[freeHeadOffset:freeHeadOffset+4], NoNext)
	return &Manager{file: file, recordSize: recordSize, count: 0, freeHead: NoNext}, nil
}

// Start opens an existing record file, reading record_count and the
// free-list head from the header.
func Start(file *mmfile.File, recordSize uint64) (*Manager, error) {
	if !file.Valid() || file.Size() < headerSize {
		return nil, fault.ErrInvalidMapping
	}
	data := file.Data()
	count := binary.LittleEndian.Uint32(data[countOffset : countOffset+4])
	freeHead := binary.LittleEndian.Uint32(data[freeHeadOffset : freeHeadOffset+4])
	return &Manager{file: file, recordSize: recordSize, count: count, freeHead: freeHead}, nil
}

// Count reports the number of records ever allocated (free-listed slots
// included).
func (m *Manager) Count() uint32 {
	return m.count
}

// LiveCount reports the number of record slots currently in use: record_count
// minus however many are queued on the free list. Used to recover a caller's
// own high-water mark (e.g. chain height) across a restart, since record_count
// itself never shrinks when a slot is released (spec.md §4 "record_count
// monotonically grows").
func (m *Manager) LiveCount() uint32 {
	free := uint32(0)
	for cursor := m.freeHead; cursor != NoNext; free++ {
		cursor = binary.LittleEndian.Uint32(m.Get(cursor)[0:4])
	}
	return m.count - free
}

func (m *Manager) offsetOf(index uint32) uint64 {
	return headerSize + uint64(index)*m.recordSize
}

// NewRecord returns the index of a free record slot, consuming the free
// list before growing record_count.
func (m *Manager) NewRecord() (uint32, error) {
	if m.freeHead != NoNext {
		index := m.freeHead
		slot := m.Get(index)
		m.freeHead = binary.LittleEndian.Uint32(slot[0:4])
		return index, nil
	}

	index := m.count
	required := m.offsetOf(index) + m.recordSize
	if required > uint64(m.file.Size()) {
		grown := uint64(m.file.Size()) * 3 / 2
		if grown < required {
			grown = required
		}
		if !m.file.Resize(int64(grown)) {
			return 0, fault.ErrResizeFailed
		}
	}
	m.count++
	return index, nil
}

// Get returns a slice view of the record at index, of length recordSize.
func (m *Manager) Get(index uint32) []byte {
	start := m.offsetOf(index)
	return m.file.Data()[start : start+m.recordSize]
}

// Release pushes index onto the free list for reuse by a future NewRecord.
func (m *Manager) Release(index uint32) {
	slot := m.Get(index)
	binary.LittleEndian.PutUint32(slot[0:4], m.freeHead)
	m.freeHead = index
}

// Sync publishes record_count and the free-list head to the header.
func (m *Manager) Sync() error {
	if !m.file.Valid() {
		return fault.ErrInvalidMapping
	}
	data := m.file.Data()
	binary.LittleEndian.PutUint32(data[countOffset:countOffset+4], m.count)
	binary.LittleEndian.PutUint32(data[freeHeadOffset:freeHeadOffset+4], m.freeHead)
	return nil
}
