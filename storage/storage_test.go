// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chaindb/storage"
	"github.com/bitmark-inc/logger"
)

func TestMain(m *testing.M) {
	logDir, err := os.MkdirTemp("", "chaindb-storage-test-log")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(logDir)

	if err := logger.Initialise(logger.Configuration{
		Directory: logDir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}); err != nil {
		panic(err)
	}

	code := m.Run()
	logger.Finalise()
	os.Exit(code)
}

func smallSettings() storage.Settings {
	s := storage.DefaultSettings()
	s.BlocksLookupBuckets = 7
	s.SpendsBuckets = 7
	s.TransactionsBuckets = 7
	s.HistoryBuckets = 7
	s.Stealth.ShardMaxEntries = 16
	return s
}

func hashFromByte(b byte) storage.Hash {
	var h storage.Hash
	h[0] = b
	return h
}

func addressFromByte(b byte) storage.AddressHash {
	var a storage.AddressHash
	a[0] = b
	return a
}

func genesisBlock() storage.Block {
	coinbase := storage.Tx{
		Hash: hashFromByte(1),
		Raw:  []byte("coinbase"),
		Outputs: []storage.Output{
			{Value: 50, AddressHash: addrPtr(addressFromByte(0xAA))},
		},
	}
	return storage.Block{
		Header: storage.BlockHeader{
			Hash: hashFromByte(0xEE),
		},
		Transactions: []storage.Tx{coinbase},
	}
}

func addrPtr(a storage.AddressHash) *storage.AddressHash { return &a }

// S5 — push/pop roundtrip (spec.md §8): a block with one non-coinbase tx
// with one input and two outputs must come back byte-equal from Pop, and
// every history row it added must be gone afterward.
func TestPushThenPopRoundtrip(t *testing.T) {
	dir := t.TempDir()
	engine, err := storage.Initialise(dir, smallSettings())
	assert.NoError(t, err)
	defer engine.Finalise()

	assert.NoError(t, engine.Push(genesisBlock()))

	payer := addressFromByte(0x11)
	payee := addressFromByte(0x22)
	change := addressFromByte(0x33)

	tx := storage.Tx{
		Hash: hashFromByte(2),
		Raw:  []byte("raw-tx-bytes"),
		Inputs: []storage.Input{
			{PreviousOutput: storage.Outpoint{Hash: hashFromByte(1), Index: 0}, AddressHash: addrPtr(payer)},
		},
		Outputs: []storage.Output{
			{Value: 30, AddressHash: addrPtr(payee)},
			{Value: 19, AddressHash: addrPtr(change)},
		},
	}

	block := storage.Block{
		Header:       storage.BlockHeader{Height: 1, Hash: hashFromByte(0xB1), PrevHash: hashFromByte(0xEE)},
		Transactions: []storage.Tx{tx},
	}

	assert.NoError(t, engine.Push(block))
	assert.Equal(t, uint64(2), engine.Blocks.Height())

	assert.Len(t, engine.History.Rows(payer), 1)
	assert.Len(t, engine.History.Rows(payee), 1)
	assert.Len(t, engine.History.Rows(change), 1)

	spender, found := engine.Spends.Get(storage.Outpoint{Hash: hashFromByte(1), Index: 0})
	assert.True(t, found)
	assert.Equal(t, tx.Hash, spender.Hash)

	popped, err := engine.Pop()
	assert.NoError(t, err)
	assert.Equal(t, block.Header, popped.Header)
	assert.Equal(t, len(block.Transactions), len(popped.Transactions))
	assert.Equal(t, tx.Hash, popped.Transactions[0].Hash)
	assert.Equal(t, tx.Raw, popped.Transactions[0].Raw)
	assert.Equal(t, tx.Inputs, popped.Transactions[0].Inputs)
	assert.Equal(t, tx.Outputs, popped.Transactions[0].Outputs)

	assert.Equal(t, uint64(1), engine.Blocks.Height())
	assert.Empty(t, engine.History.Rows(payer))
	assert.Empty(t, engine.History.Rows(payee))
	assert.Empty(t, engine.History.Rows(change))

	_, found = engine.Spends.Get(storage.Outpoint{Hash: hashFromByte(1), Index: 0})
	assert.False(t, found, "spend record must be unlinked by Pop")

	_, _, _, _, _, ok := engine.GetTransaction(tx.Hash)
	assert.False(t, ok, "transaction record must be unlinked by Pop")
}

func TestPopOnGenesisOnlyChainIsRejected(t *testing.T) {
	dir := t.TempDir()
	engine, err := storage.Initialise(dir, smallSettings())
	assert.NoError(t, err)
	defer engine.Finalise()

	assert.NoError(t, engine.Push(genesisBlock()))

	_, err = engine.Pop()
	assert.Error(t, err)
	assert.Equal(t, uint64(1), engine.Blocks.Height())
}

func TestStartReopensExistingStore(t *testing.T) {
	dir := t.TempDir()
	settings := smallSettings()

	engine, err := storage.Initialise(dir, settings)
	assert.NoError(t, err)
	assert.NoError(t, engine.Push(genesisBlock()))
	engine.Finalise()

	reopened, err := storage.Start(dir, settings)
	assert.NoError(t, err)
	defer reopened.Finalise()

	assert.Equal(t, uint64(1), reopened.Blocks.Height())
	header, hashes, ok := reopened.Blocks.GetByHeight(0)
	assert.True(t, ok)
	assert.Equal(t, hashFromByte(0xEE), header.Hash)
	assert.Equal(t, []storage.Hash{hashFromByte(1)}, hashes)
}

func TestStealthScanFindsPayment(t *testing.T) {
	dir := t.TempDir()
	engine, err := storage.Initialise(dir, smallSettings())
	assert.NoError(t, err)
	defer engine.Finalise()

	assert.NoError(t, engine.Push(genesisBlock()))

	payee := addressFromByte(0x44)
	stealthTx := storage.Tx{
		Hash: hashFromByte(3),
		Raw:  []byte("stealth-tx"),
		Outputs: []storage.Output{
			{Value: 0, Ephemeral: &storage.StealthKey{EphemeralKey: [32]byte{0x01}, Prefix: 0x01020304}},
			{Value: 5, AddressHash: addrPtr(payee)},
		},
	}
	block := storage.Block{
		Header:       storage.BlockHeader{Height: 1, Hash: hashFromByte(0xB2), PrevHash: hashFromByte(0xEE)},
		Transactions: []storage.Tx{stealthTx},
	}
	assert.NoError(t, engine.Push(block))

	var found []storage.StealthRow
	engine.Stealth.Scan(32, 0x01020304, 0, func(row storage.StealthRow) {
		found = append(found, row)
	})
	assert.Len(t, found, 1)
	assert.Equal(t, payee, found[0].AddressHash)
	assert.Equal(t, stealthTx.Hash, found[0].TxHash)

	popped, err := engine.Pop()
	assert.NoError(t, err)
	assert.Equal(t, block.Header, popped.Header)

	found = nil
	engine.Stealth.Scan(32, 0x01020304, 0, func(row storage.StealthRow) {
		found = append(found, row)
	})
	assert.Empty(t, found, "unlink must remove the stealth entry added at the popped height")
}
