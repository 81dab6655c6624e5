// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/chaindb/storage"
)

func runDumpBlock(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("dump-block requires a HEIGHT argument", 1)
	}
	height, err := strconv.ParseUint(c.Args().Get(0), 10, 64)
	if nil != err {
		return cli.NewExitError(fmt.Sprintf("invalid height: %s", err), 1)
	}

	directory := requireDirectory(c)
	engine, err := storage.Start(directory, storage.DefaultSettings())
	if nil != err {
		return cli.NewExitError(fmt.Sprintf("open error: %s", err), 1)
	}
	defer engine.Finalise()

	header, txHashes, ok := engine.Blocks.GetByHeight(height)
	if !ok {
		return cli.NewExitError(fmt.Sprintf("block not found at height %d", height), 1)
	}

	txs := make([]storage.Tx, len(txHashes))
	for i, hash := range txHashes {
		_, _, raw, inputs, outputs, found := engine.GetTransaction(hash)
		tx := storage.Tx{Hash: hash}
		if found {
			tx.Raw = raw
			tx.Inputs = inputs
			tx.Outputs = outputs
		}
		txs[i] = tx
	}

	out, err := storage.MarshalBlock(storage.Block{Header: header, Transactions: txs})
	if nil != err {
		return cli.NewExitError(fmt.Sprintf("block JSON error: %s", err), 1)
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

func runGetTx(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("get-tx requires a TXHASH argument", 1)
	}

	raw, err := hex.DecodeString(c.Args().Get(0))
	if nil != err || 32 != len(raw) {
		return cli.NewExitError(fmt.Sprintf("invalid transaction hash: %q", c.Args().Get(0)), 1)
	}
	var hash storage.Hash
	copy(hash[:], raw)

	directory := requireDirectory(c)
	engine, err := storage.Start(directory, storage.DefaultSettings())
	if nil != err {
		return cli.NewExitError(fmt.Sprintf("open error: %s", err), 1)
	}
	defer engine.Finalise()

	height, index, body, _, _, ok := engine.GetTransaction(hash)
	if !ok {
		return cli.NewExitError("transaction not found", 1)
	}
	fmt.Fprintf(c.App.Writer, "height=%d index=%d raw=%s\n", height, index, hex.EncodeToString(body))
	return nil
}

func runScan(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("scan requires a PREFIX argument", 1)
	}

	prefixBytes, err := hex.DecodeString(c.Args().Get(0))
	if nil != err || len(prefixBytes) != 4 {
		return cli.NewExitError("prefix must be 4 hex-encoded bytes", 1)
	}
	prefix := uint32(prefixBytes[0])<<24 | uint32(prefixBytes[1])<<16 | uint32(prefixBytes[2])<<8 | uint32(prefixBytes[3])

	bits := c.Int("bits")
	from := c.Uint64("from")

	directory := requireDirectory(c)
	engine, err := storage.Start(directory, storage.DefaultSettings())
	if nil != err {
		return cli.NewExitError(fmt.Sprintf("open error: %s", err), 1)
	}
	defer engine.Finalise()

	count := 0
	engine.Stealth.Scan(bits, prefix, int(from), func(row storage.StealthRow) {
		count++
		fmt.Fprintf(c.App.Writer, "tx=%s address=%s ephemeralKey=%s\n",
			hex.EncodeToString(row.TxHash[:]),
			hex.EncodeToString(row.AddressHash[:]),
			hex.EncodeToString(row.EphemeralKey[:]),
		)
	})
	if 0 == count {
		fmt.Fprintln(c.App.Writer, "no matches")
	}
	return nil
}

func runHeight(c *cli.Context) error {
	directory := requireDirectory(c)
	engine, err := storage.Start(directory, storage.DefaultSettings())
	if nil != err {
		return cli.NewExitError(fmt.Sprintf("open error: %s", err), 1)
	}
	defer engine.Finalise()

	fmt.Fprintf(c.App.Writer, "%d\n", engine.Blocks.Height())
	return nil
}
