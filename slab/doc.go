// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package slab implements the bump-pointer, variable-size allocator layered
// directly on an mmfile.File.
//
// The file's first 8 bytes hold payload_end, the byte offset one past the
// last allocated slab. NewSlab reserves n bytes starting at payload_end and
// returns that offset; the caller writes the payload through Bytes(offset,
// n) and then calls Sync to publish the advanced payload_end. Offset 0 is
// never allocated and is used as a null/terminator sentinel by callers.
package slab
