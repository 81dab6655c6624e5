// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/chaindb/storage"
)

// processCommand dispatches one write-path or read-path subcommand against
// the store at directory. It returns false if command is not recognised.
func processCommand(program, directory, command string, arguments []string) bool {
	switch command {

	case "init":
		_, err := storage.Initialise(directory, storage.DefaultSettings())
		if nil != err {
			exitwithstatus.Message("%s: initialise error: %s", program, err)
		}
		return true

	case "push":
		runPush(program, directory, arguments)
		return true

	case "pop":
		runPop(program, directory)
		return true

	case "height":
		runHeight(program, directory)
		return true

	case "get":
		runGet(program, directory, arguments)
		return true

	default:
		return false
	}
}

func openEngine(program, directory string) *storage.Engine {
	engine, err := storage.Start(directory, storage.DefaultSettings())
	if nil != err {
		exitwithstatus.Message("%s: open error: %s", program, err)
	}
	return engine
}

func runPush(program, directory string, arguments []string) {
	if len(arguments) < 1 {
		exitwithstatus.Message("%s: push requires a FILE argument ('-' for stdin)", program)
	}

	var data []byte
	var err error
	if "-" == arguments[0] {
		data, err = ioutil.ReadAll(os.Stdin)
	} else {
		data, err = ioutil.ReadFile(arguments[0])
	}
	if nil != err {
		exitwithstatus.Message("%s: read error: %s", program, err)
	}

	block, err := storage.UnmarshalBlock(data)
	if nil != err {
		exitwithstatus.Message("%s: block JSON error: %s", program, err)
	}

	engine := openEngine(program, directory)
	defer engine.Finalise()

	if err := engine.Push(block); nil != err {
		exitwithstatus.Message("%s: push error: %s", program, err)
	}
	fmt.Printf("pushed block at height %d\n", engine.Blocks.Height()-1)
}

func runPop(program, directory string) {
	engine := openEngine(program, directory)
	defer engine.Finalise()

	block, err := engine.Pop()
	if nil != err {
		exitwithstatus.Message("%s: pop error: %s", program, err)
	}

	out, err := storage.MarshalBlock(block)
	if nil != err {
		exitwithstatus.Message("%s: block JSON error: %s", program, err)
	}
	io.WriteString(os.Stdout, string(out)+"\n")
}

func runHeight(program, directory string) {
	engine := openEngine(program, directory)
	defer engine.Finalise()

	fmt.Printf("%d\n", engine.Blocks.Height())
}

func runGet(program, directory string, arguments []string) {
	if len(arguments) < 1 {
		exitwithstatus.Message("%s: get requires a TXHASH argument", program)
	}

	raw, err := hex.DecodeString(arguments[0])
	if nil != err || 32 != len(raw) {
		exitwithstatus.Message("%s: invalid transaction hash: %q", program, arguments[0])
	}
	var hash storage.Hash
	copy(hash[:], raw)

	engine := openEngine(program, directory)
	defer engine.Finalise()

	height, index, txRaw, _, _, ok := engine.GetTransaction(hash)
	if !ok {
		exitwithstatus.Message("%s: transaction not found: %s", program, arguments[0])
	}
	fmt.Printf("height=%d index=%d raw=%s\n", height, index, hex.EncodeToString(txRaw))
}
