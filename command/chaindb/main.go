// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chaindb/fault"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "directory", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'd'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 || 0 == len(arguments) {
		printUsage(program)
		return
	}

	if 1 != len(options["directory"]) {
		exitwithstatus.Message("%s: exactly one --directory is required", program)
	}
	directory := options["directory"][0]

	logging := logger.Configuration{
		Directory: filepath.Join(directory, "log"),
		File:      "chaindb.log",
		Size:      1024 * 1024,
		Count:     5,
		Levels:    map[string]string{logger.DefaultTag: "critical"},
	}
	if err := logger.Initialise(logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err := fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	command := arguments[0]
	arguments = arguments[1:]

	if !processCommand(program, directory, command, arguments) {
		exitwithstatus.Message("%s: unknown command: %q", program, command)
	}
}

func printUsage(program string) {
	exitwithstatus.Message(`usage: %s --directory DIR <command> [arguments]

commands:
  init                 create a new, empty store at DIR
  push FILE            read a JSON block from FILE ('-' for stdin) and push it
  pop                  pop the top block and print it as JSON
  height               print the current chain height
  get TXHASH           print the transaction with the given hex hash
`, program)
}
