// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package slabhash implements the chained hash table whose values are
// variable-size slabs (spec.md §4.5): slab_hash_table<K>.
//
// A bucket in the underlying diskarray.Array64 holds the slab offset of the
// most recently stored chain node for that bucket, or 0 when empty (Create
// fills the buckets with 0, not diskarray.NoSlab). Each chain node is laid out as [key][u64 next][value bytes], with
// next == 0 terminating the chain — offset 0 is never itself an allocated
// slab (see the slab package), so 0 is safe to use as both "empty bucket"
// sentinel at the chain-node level and chain terminator.
package slabhash
