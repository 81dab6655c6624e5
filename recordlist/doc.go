// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package recordlist implements the standalone singly-linked list over a
// record.Manager (spec.md §4.7). Node layout: [u32 next][payload]. It is
// used as the shared value list underlying the multimap package.
package recordlist
