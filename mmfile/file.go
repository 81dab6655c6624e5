// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmfile

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// File is a grow-only memory-mapped file.
//
// All access to data/size goes through a mutex purely so the Go memory model
// does not treat a concurrent Resize/Data pair as a data race on the slice
// header; the seqlock protocol (see the seqlock package) is what actually
// makes a reader's view of the mapped bytes consistent.
type File struct {
	mutex  sync.RWMutex
	handle *os.File
	data   []byte
	size   int64
}

// Open maps an existing, non-empty file for read/write access. A missing
// file, a zero-length file, or an mmap failure yields a File whose Data
// returns nil and whose Size returns 0 — callers check this before use.
func Open(path string) *File {
	handle, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return &File{}
	}

	info, err := handle.Stat()
	if err != nil {
		handle.Close()
		return &File{}
	}

	size := info.Size()
	if size <= 0 {
		handle.Close()
		return &File{}
	}

	data, err := unix.Mmap(int(handle.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		handle.Close()
		return &File{}
	}

	return &File{
		handle: handle,
		data:   data,
		size:   size,
	}
}

// Touch creates path if it does not already exist and writes the single
// byte "H" so the file is non-zero length before it is first mapped.
func Touch(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	handle, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer handle.Close()
	_, err = handle.Write([]byte{'H'})
	return err
}

// Valid reports whether the file opened successfully.
func (f *File) Valid() bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.data != nil
}

// Data returns the current mapping. It is invalidated by the next successful
// Resize; re-derive it rather than caching it across a suspension point.
func (f *File) Data() []byte {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.data
}

// Size returns the current mapped length in bytes.
func (f *File) Size() int64 {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.size
}

// Resize grows the backing file to newSize, preserving existing bytes and
// zero-filling the tail, then remaps. It never shrinks: a newSize <= the
// current size is a no-op success. Returns false on any OS-level failure,
// in which case the previous mapping remains valid and unchanged.
func (f *File) Resize(newSize int64) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.data == nil {
		return false
	}
	if newSize <= f.size {
		return true
	}

	if err := f.handle.Truncate(newSize); err != nil {
		return false
	}

	data, err := remap(f.handle, f.data, f.size, newSize)
	if err != nil {
		return false
	}

	f.data = data
	f.size = newSize
	return true
}

// Close unmaps and closes the underlying file.
func (f *File) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.data == nil {
		return nil
	}
	err := unix.Munmap(f.data)
	f.data = nil
	if closeErr := f.handle.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
