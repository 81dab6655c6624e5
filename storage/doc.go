// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage assembles the substrate packages (slab, record,
// diskarray, slabhash, recordhash, recordlist, multimap, hdbshard, seqlock,
// writestrand) into the eight on-disk tables of the blockchain store
// (spec.md §6) and the Push/Pop orchestration that keeps them consistent
// with the active chain (grounded on db_interface.cpp's push/pop).
//
// File set, all held under one directory guarded by a single db-lock:
//
//	blocks_lookup    slab hash:      block hash -> height in blocks_rows
//	blocks_rows      record manager: height -> block header + tx hash list
//	spends           record hash:    outpoint -> spending input point
//	transactions     slab hash:      tx hash -> (height, index, raw tx)
//	history_lookup   record multimap head: address hash -> list head
//	history_rows     record list nodes: spend/output rows
//	stealth_index    hdb_shard index region
//	stealth_rows     hdb_shard entries
//
// Every Push and Pop runs on a single writestrand.Strand. Each change to the
// blocks, spends, transactions and history tables is bracketed by that
// table's seqlock.SeqLock, so a concurrent reader of one of those tables sees
// that change whole or not at all. The stealth table has no seqlock: its
// Scan is not coordinated with a concurrent Sync or Unlink.
package storage
