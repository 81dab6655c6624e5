// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package seqlock provides the reader/writer coordination protocol of
// spec.md §5: a process-local atomic parity counter per top-level table.
// The writer increments to odd before its first mutating byte write and to
// even after its last; a reader snapshots the counter before and after an
// unsynchronized read and retries whenever it observed an odd value or the
// two snapshots disagree.
package seqlock
