// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package diskarray implements the fixed-size on-disk bucket table
// (spec.md §4.4): a persistent header holding bucket_count followed by a
// flat array of fixed-width value slots. Create64 and Create32 fill every
// bucket with the all-ones sentinel for its width — NoSlab (u64) for slab
// offsets, NoRecord (u32) for record indexes; CreateFilled64 fills the u64
// buckets with a caller-chosen value instead.
package diskarray
