// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package multimap implements record_multimap<K> (spec.md §4.8): a
// recordhash.Table whose fixed payload is a single u32 head index into a
// shared recordlist.List. Values are added LIFO — Add prepends, DeleteLast
// removes the head — matching history_lookup/history_rows (spec.md §6).
package multimap
