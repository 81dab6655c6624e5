// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package writestrand provides the single serial executor that all
// mutations (store, unlink, push, pop, sync) run on (spec.md §5). Only one
// task ever runs at a time, and tasks run in submission order — this is
// what lets file growth (which remaps and invalidates every derived
// pointer) happen safely without coordinating with concurrent readers
// beyond the seqlock protocol.
package writestrand
