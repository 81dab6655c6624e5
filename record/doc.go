// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record implements the bump-pointer, fixed-size allocator layered
// directly on an mmfile.File.
//
// The file's header holds record_count (the number of records ever
// allocated) and a free-list head. NewRecord consumes the free list before
// bumping record_count; Release pushes a record back onto the free list by
// writing the previous head into the released record's first 4 bytes.
package record
