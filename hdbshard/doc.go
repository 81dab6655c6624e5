// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hdbshard implements hdb_shard (spec.md §4.9): a height-addressable
// append log of bucket-sorted rows, built for O(1) jump-in prefix scans over
// stealth payment scan keys.
//
// The index region (height → entry offset, plus entries_end) and the entry
// region (the sorted rows themselves) live in two separate mmap-backed
// files — index and rows — mirroring the stealth_index/stealth_rows split
// documented for the higher-level table (spec.md §6), rather than the single
// combined file the underlying algorithm was originally specified against.
//
// Bucket and prefix comparisons use the big-endian, MSB-first convention
// over the raw scan_key bytes: the bucket a key routes to, and whether a
// row's scan_key shares a prefix with a query, are both computed by reading
// the leading bits of the byte slice starting from the most significant bit
// of the first byte.
package hdbshard
