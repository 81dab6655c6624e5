// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package slab

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/fault"
	"github.com/bitmark-inc/chaindb/mmfile"
)

const headerSize = 8

// Manager is the bump-pointer variable-size allocator (spec.md §4.2).
type Manager struct {
	file       *mmfile.File
	payloadEnd uint64
}

// Create initializes a brand-new, just-touched file. payload_end starts at
// 1, not 0: offset 0 is never allocated, since slabhash uses it as both the
// empty-bucket sentinel and the chain terminator (spec.md §3).
func Create(file *mmfile.File) (*Manager, error) {
	if !file.Valid() {
		return nil, fault.ErrInvalidMapping
	}
	if !file.Resize(headerSize) {
		return nil, fault.ErrResizeFailed
	}
	binary.LittleEndian.PutUint64(file.Data()[0:headerSize], 1)
	return &Manager{file: file, payloadEnd: 1}, nil
}

// Start opens an existing slab file, reading payload_end from the header.
func Start(file *mmfile.File) (*Manager, error) {
	if !file.Valid() || file.Size() < headerSize {
		return nil, fault.ErrInvalidMapping
	}
	payloadEnd := binary.LittleEndian.Uint64(file.Data()[0:headerSize])
	return &Manager{file: file, payloadEnd: payloadEnd}, nil
}

// Size reports the current payload_end — the logical offset one past the
// last allocated slab, excluding the header. It is 1 on a fresh file, since
// offset 0 is never allocated.
func (m *Manager) Size() uint64 {
	return m.payloadEnd
}

// NewSlab reserves n bytes and returns their offset. The caller must write
// the payload via Bytes(offset, n) before the next Sync.
func (m *Manager) NewSlab(n uint64) (uint64, error) {
	offset := m.payloadEnd
	required := headerSize + offset + n
	if required > uint64(m.file.Size()) {
		grown := uint64(m.file.Size()) * 3 / 2
		if grown < required {
			grown = required
		}
		if !m.file.Resize(int64(grown)) {
			return 0, fault.ErrResizeFailed
		}
	}
	m.payloadEnd = offset + n
	return offset, nil
}

// Bytes returns a slice view into the mapped slab region at the given
// logical offset, of length n. The slice is invalidated by the next
// growth-triggering NewSlab or by Resize; callers must not retain it across
// a mutating call.
func (m *Manager) Bytes(offset, n uint64) []byte {
	start := headerSize + offset
	return m.file.Data()[start : start+n]
}

// Sync publishes the current payload_end to the header. Body bytes for any
// slab returned by NewSlab since the last Sync must already be written.
func (m *Manager) Sync() error {
	if !m.file.Valid() {
		return fault.ErrInvalidMapping
	}
	binary.LittleEndian.PutUint64(m.file.Data()[0:headerSize], m.payloadEnd)
	return nil
}
