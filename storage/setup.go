// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/bitmark-inc/chaindb/fault"
	"github.com/bitmark-inc/chaindb/hdbshard"
	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/writestrand"
	"github.com/bitmark-inc/logger"
)

// Settings configures bucket counts and shard sizing for one storage
// directory (spec.md §6 "Bucket sizing", §4.9). There is no file-level
// config format here — the daemon-wide UCL configuration the teacher reads
// for peers/RPC/mining has nothing in this module left to configure.
type Settings struct {
	BlocksLookupBuckets   uint32
	SpendsBuckets         uint32
	TransactionsBuckets   uint32
	HistoryBuckets        uint32
	HistoryTrackingHeight uint64
	Stealth               hdbshard.Settings
}

// DefaultSettings returns reasonable bucket counts for a fresh chain
// database; all are odd so fingerprints spread across buckets evenly
// (spec.md §6 "Bucket sizing... must be a prime or a large odd number").
func DefaultSettings() Settings {
	return Settings{
		BlocksLookupBuckets:   1_048_573,
		SpendsBuckets:         4_194_301,
		TransactionsBuckets:   4_194_301,
		HistoryBuckets:        2_097_143,
		HistoryTrackingHeight: 0,
		Stealth: hdbshard.Settings{
			BucketBitsize:   8,
			ShardMaxEntries: stealthShardMaxEntries,
		},
	}
}

const (
	fileBlocksLookupBuckets = "blocks_lookup_buckets"
	fileBlocksLookupSlabs   = "blocks_lookup_slabs"
	fileBlocksRows          = "blocks_rows"
	fileSpendsBuckets       = "spends_buckets"
	fileSpendsRecords       = "spends_records"
	fileTransactionsBuckets = "transactions_buckets"
	fileTransactionsSlabs   = "transactions_slabs"
	fileHistoryLookupBuckets = "history_lookup_buckets"
	fileHistoryLookupHeads   = "history_lookup_heads"
	fileHistoryRows          = "history_rows"
	fileStealthIndex         = "stealth_index"
	fileStealthRows          = "stealth_rows"
	fileDirLock              = "db-lock"
)

var fileNames = []string{
	fileBlocksLookupBuckets, fileBlocksLookupSlabs, fileBlocksRows,
	fileSpendsBuckets, fileSpendsRecords,
	fileTransactionsBuckets, fileTransactionsSlabs,
	fileHistoryLookupBuckets, fileHistoryLookupHeads, fileHistoryRows,
	fileStealthIndex, fileStealthRows,
}

// Engine is the top-level storage handle: the eight logical files of
// spec.md §6 (split across the physical files above for the
// bucket-array/body pairs each substrate table needs), guarded by one
// directory lock and one write strand (spec.md §5 "Scheduling model").
type Engine struct {
	dir      string
	settings Settings
	lock     *mmfile.DirLock
	strand   *writestrand.Strand
	files    []*mmfile.File
	cache    TxCache
	poisoned uint32

	Blocks       *BlocksTable
	Spends       *SpendsTable
	Transactions *TransactionsTable
	History      *HistoryTable
	Stealth      *StealthTable
}

var log *logger.L

func channelLog() *logger.L {
	if log == nil {
		log = logger.New("storage")
	}
	return log
}

func openFiles(dir string) (map[string]*mmfile.File, []*mmfile.File, error) {
	files := make(map[string]*mmfile.File, len(fileNames))
	ordered := make([]*mmfile.File, 0, len(fileNames))
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if err := mmfile.Touch(path); err != nil {
			return nil, ordered, err
		}
		f := mmfile.Open(path)
		if !f.Valid() {
			return nil, ordered, fault.ErrInvalidMapping
		}
		files[name] = f
		ordered = append(ordered, f)
	}
	return files, ordered, nil
}

func buildTables(files map[string]*mmfile.File, settings Settings, fresh bool) (*BlocksTable, *SpendsTable, *TransactionsTable, *HistoryTable, *StealthTable, error) {
	var blocks *BlocksTable
	var spends *SpendsTable
	var transactions *TransactionsTable
	var history *HistoryTable
	var stealth *StealthTable
	var err error

	if fresh {
		blocks, err = CreateBlocksTable(files[fileBlocksLookupBuckets], files[fileBlocksLookupSlabs], files[fileBlocksRows], settings.BlocksLookupBuckets)
	} else {
		blocks, err = StartBlocksTable(files[fileBlocksLookupBuckets], files[fileBlocksLookupSlabs], files[fileBlocksRows])
	}
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	if fresh {
		spends, err = CreateSpendsTable(files[fileSpendsBuckets], files[fileSpendsRecords], settings.SpendsBuckets)
	} else {
		spends, err = StartSpendsTable(files[fileSpendsBuckets], files[fileSpendsRecords])
	}
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	if fresh {
		transactions, err = CreateTransactionsTable(files[fileTransactionsBuckets], files[fileTransactionsSlabs], settings.TransactionsBuckets)
	} else {
		transactions, err = StartTransactionsTable(files[fileTransactionsBuckets], files[fileTransactionsSlabs])
	}
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	if fresh {
		history, err = CreateHistoryTable(files[fileHistoryLookupBuckets], files[fileHistoryLookupHeads], files[fileHistoryRows], settings.HistoryBuckets)
	} else {
		history, err = StartHistoryTable(files[fileHistoryLookupBuckets], files[fileHistoryLookupHeads], files[fileHistoryRows])
	}
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	if fresh {
		stealth, err = CreateStealthTable(files[fileStealthIndex], files[fileStealthRows], settings.Stealth)
	} else {
		stealth, err = StartStealthTable(files[fileStealthIndex], files[fileStealthRows], settings.Stealth)
	}
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	return blocks, spends, transactions, history, stealth, nil
}

// Initialise creates a brand-new storage directory at dir: acquires the
// directory lock, touches every file, and writes each table's empty
// header (spec.md §3 "Lifecycle", §6 "File lock"). dir must not already
// contain a chaindb store.
func Initialise(dir string, settings Settings) (*Engine, error) {
	channelLog()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	lock, err := mmfile.Lock(filepath.Join(dir, fileDirLock))
	if err != nil {
		return nil, fault.ErrDirLockFailed
	}

	files, ordered, err := openFiles(dir)
	if err != nil {
		closeAll(ordered)
		lock.Unlock()
		return nil, err
	}

	blocks, spends, transactions, history, stealth, err := buildTables(files, settings, true)
	if err != nil {
		closeAll(ordered)
		lock.Unlock()
		return nil, err
	}

	log.Infof("initialised chaindb store at %q", dir)
	return &Engine{
		dir: dir, settings: settings, lock: lock, strand: writestrand.Start(),
		files: ordered, cache: newCache(),
		Blocks: blocks, Spends: spends, Transactions: transactions, History: history, Stealth: stealth,
	}, nil
}

// Start opens an existing storage directory written by a prior Initialise
// (spec.md §3 "opened by start").
func Start(dir string, settings Settings) (*Engine, error) {
	channelLog()
	lock, err := mmfile.Lock(filepath.Join(dir, fileDirLock))
	if err != nil {
		return nil, fault.ErrDirLockFailed
	}

	files, ordered, err := openFiles(dir)
	if err != nil {
		closeAll(ordered)
		lock.Unlock()
		return nil, err
	}

	blocks, spends, transactions, history, stealth, err := buildTables(files, settings, false)
	if err != nil {
		closeAll(ordered)
		lock.Unlock()
		return nil, err
	}

	log.Infof("opened chaindb store at %q, height=%d", dir, blocks.Height())
	return &Engine{
		dir: dir, settings: settings, lock: lock, strand: writestrand.Start(),
		files: ordered, cache: newCache(),
		Blocks: blocks, Spends: spends, Transactions: transactions, History: history, Stealth: stealth,
	}, nil
}

func closeAll(files []*mmfile.File) {
	for _, f := range files {
		f.Close()
	}
}

// Finalise stops the write strand, closes every mapped file, and releases
// the directory lock. Safe to call once per successful Initialise/Start.
func (e *Engine) Finalise() {
	e.strand.Stop()
	closeAll(e.files)
	e.lock.Unlock()
	log.Flush()
}

// checkPoisoned returns fault.ErrPoisoned if a prior failure has disabled
// further writes (spec.md §7 "Growth failure... poisons the write path").
func (e *Engine) checkPoisoned() error {
	if atomic.LoadUint32(&e.poisoned) != 0 {
		return fault.ErrPoisoned
	}
	return nil
}

func (e *Engine) poison(err error) error {
	if fault.IsErrCorruptedChain(err) {
		atomic.StoreUint32(&e.poisoned, 1)
		writePathPoisonedTotal.Inc()
		log.Criticalf("write path poisoned: %s", err)
		fault.PanicWithError("storage: chain pointer exceeds allocator bounds", err)
	}
	if fault.IsErrIo(err) {
		atomic.StoreUint32(&e.poisoned, 1)
		writePathPoisonedTotal.Inc()
		log.Criticalf("write path poisoned: %s", err)
	}
	return err
}
