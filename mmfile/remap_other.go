// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !linux

package mmfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// remap grows the mapping on platforms without mremap/MREMAP_MAYMOVE by
// unmapping and remapping at the new size, matching the "otherwise" branch
// of mmfile::resize in the original libbitcoin source.
func remap(handle *os.File, data []byte, _, newSize int64) ([]byte, error) {
	if err := unix.Munmap(data); err != nil {
		return nil, err
	}
	return unix.Mmap(int(handle.Fd()), 0, int(newSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}
