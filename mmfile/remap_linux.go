// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// remap grows the mapping in place using mremap(MREMAP_MAYMOVE), ported from
// mmfile::resize in the original libbitcoin mmfile.cpp. The kernel is free
// to relocate the mapping; callers must treat the returned slice as the only
// valid pointer going forward.
func remap(_ *os.File, data []byte, oldSize, newSize int64) ([]byte, error) {
	return unix.Mremap(data, int(newSize), unix.MREMAP_MAYMOVE)
}
