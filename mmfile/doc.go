// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mmfile provides the grow-only memory-mapped file abstraction that
// every other storage component is layered on.
//
// A File wraps an *os.File with an mmap of its full current length. Resize
// grows the backing file and remaps it, zero-filling the new tail and
// preserving existing bytes; it never shrinks. After a successful resize the
// base address may have moved, so every pointer obtained from a previous
// Data() call is invalid — callers must call Data() again.
package mmfile
