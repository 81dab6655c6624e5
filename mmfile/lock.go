// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// DirLock is the directory-level advisory exclusive lock (spec.md §5
// "Shared resources", §6 "db-lock") held for the lifetime of the process.
type DirLock struct {
	handle *os.File
}

// Lock acquires an exclusive, non-blocking advisory lock on path, creating
// the file if necessary. Failure to acquire is fatal to the caller — only
// one process may own a storage directory at a time.
func Lock(path string) (*DirLock, error) {
	handle, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(handle.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		handle.Close()
		return nil, err
	}
	return &DirLock{handle: handle}, nil
}

// Unlock releases the lock and closes the file handle.
func (l *DirLock) Unlock() error {
	if l == nil || l.handle == nil {
		return nil
	}
	err := unix.Flock(int(l.handle.Fd()), unix.LOCK_UN)
	if closeErr := l.handle.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
