// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package recordhash implements the chained hash table whose values are
// fixed-size records (spec.md §4.6): record_hash_table<K>.
//
// Node layout: [key][u32 next_index][fixed payload]. next_index ==
// diskarray.NoRecord terminates a chain and also marks an empty bucket.
// Unlike slabhash.Table, Store always appends a fresh record — Update
// overwrites a payload in place, and Unlink releases the spliced-out record
// to the manager's free list for reuse.
package recordhash
