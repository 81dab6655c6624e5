// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package diskarray

import (
	"encoding/binary"

	"github.com/bitmark-inc/chaindb/fault"
	"github.com/bitmark-inc/chaindb/mmfile"
)

// NoSlab is the empty-bucket sentinel for the u64 (slab offset) variant.
const NoSlab uint64 = 0xFFFFFFFFFFFFFFFF

// NoRecord is the empty-bucket sentinel for the u32 (record index) variant.
const NoRecord uint32 = 0xFFFFFFFF

const bucketCountSize = 4

// Array64 is a disk_array of u64 slab offsets.
type Array64 struct {
	file        *mmfile.File
	bucketCount uint32
}

// Create64 initializes a new bucket table of bucketCount entries, all set
// to the empty sentinel NoSlab.
func Create64(file *mmfile.File, bucketCount uint32) (*Array64, error) {
	return CreateFilled64(file, bucketCount, NoSlab)
}

// CreateFilled64 initializes a new bucket table of bucketCount entries, all
// set to fill. slab_hash_table uses fill = 0, since a slab offset of 0 is
// never allocated and doubles as both the empty-bucket and chain-terminator
// value.
func CreateFilled64(file *mmfile.File, bucketCount uint32, fill uint64) (*Array64, error) {
	if !file.Valid() {
		return nil, fault.ErrInvalidMapping
	}
	size := int64(bucketCountSize) + int64(bucketCount)*8
	if !file.Resize(size) {
		return nil, fault.ErrResizeFailed
	}
	data := file.Data()
	binary.LittleEndian.PutUint32(data[0:bucketCountSize], bucketCount)
	a := &Array64{file: file, bucketCount: bucketCount}
	for i := uint32(0); i < bucketCount; i++ {
		a.Write(i, fill)
	}
	return a, nil
}

// Start64 opens an existing u64 bucket table, reading bucket_count from the
// header.
func Start64(file *mmfile.File) (*Array64, error) {
	if !file.Valid() || file.Size() < bucketCountSize {
		return nil, fault.ErrInvalidMapping
	}
	bucketCount := binary.LittleEndian.Uint32(file.Data()[0:bucketCountSize])
	return &Array64{file: file, bucketCount: bucketCount}, nil
}

// BucketCount reports the fixed number of buckets chosen at Create64 time.
func (a *Array64) BucketCount() uint32 {
	return a.bucketCount
}

func (a *Array64) slotOffset(i uint32) int64 {
	return int64(bucketCountSize) + int64(i)*8
}

// Read returns the value stored at bucket i.
func (a *Array64) Read(i uint32) uint64 {
	off := a.slotOffset(i)
	return binary.LittleEndian.Uint64(a.file.Data()[off : off+8])
}

// Write stores v at bucket i. Visible immediately via the mmap.
func (a *Array64) Write(i uint32, v uint64) {
	off := a.slotOffset(i)
	binary.LittleEndian.PutUint64(a.file.Data()[off:off+8], v)
}

// Array32 is a disk_array of u32 record indexes.
type Array32 struct {
	file        *mmfile.File
	bucketCount uint32
}

// Create32 initializes a new bucket table of bucketCount entries, all set
// to the empty sentinel.
func Create32(file *mmfile.File, bucketCount uint32) (*Array32, error) {
	if !file.Valid() {
		return nil, fault.ErrInvalidMapping
	}
	size := int64(bucketCountSize) + int64(bucketCount)*4
	if !file.Resize(size) {
		return nil, fault.ErrResizeFailed
	}
	data := file.Data()
	binary.LittleEndian.PutUint32(data[0:bucketCountSize], bucketCount)
	a := &Array32{file: file, bucketCount: bucketCount}
	for i := uint32(0); i < bucketCount; i++ {
		a.Write(i, NoRecord)
	}
	return a, nil
}

// Start32 opens an existing u32 bucket table, reading bucket_count from the
// header.
func Start32(file *mmfile.File) (*Array32, error) {
	if !file.Valid() || file.Size() < bucketCountSize {
		return nil, fault.ErrInvalidMapping
	}
	bucketCount := binary.LittleEndian.Uint32(file.Data()[0:bucketCountSize])
	return &Array32{file: file, bucketCount: bucketCount}, nil
}

// BucketCount reports the fixed number of buckets chosen at Create32 time.
func (a *Array32) BucketCount() uint32 {
	return a.bucketCount
}

func (a *Array32) slotOffset(i uint32) int64 {
	return int64(bucketCountSize) + int64(i)*4
}

// Read returns the value stored at bucket i.
func (a *Array32) Read(i uint32) uint32 {
	off := a.slotOffset(i)
	return binary.LittleEndian.Uint32(a.file.Data()[off : off+4])
}

// Write stores v at bucket i. Visible immediately via the mmap.
func (a *Array32) Write(i uint32, v uint32) {
	off := a.slotOffset(i)
	binary.LittleEndian.PutUint32(a.file.Data()[off:off+4], v)
}
