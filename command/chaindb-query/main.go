// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/chaindb/fault"
	"github.com/bitmark-inc/logger"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	logging := logger.Configuration{
		Directory: ".",
		File:      "chaindb-query.log",
		Size:      1024 * 1024,
		Count:     5,
		Console:   true,
		Levels:    map[string]string{logger.DefaultTag: "critical"},
	}
	if err := logger.Initialise(logging); nil != err {
		fmt.Fprintf(os.Stderr, "logger setup failed with error: %s\n", err)
		os.Exit(1)
	}
	defer logger.Finalise()

	if err := fault.Initialise(); nil != err {
		fmt.Fprintf(os.Stderr, "fault setup failed with error: %s\n", err)
		os.Exit(1)
	}
	defer fault.Finalise()

	app := cli.NewApp()
	app.Name = "chaindb-query"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "directory, d",
			Value: "",
			Usage: "*chaindb store `DIR`",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "dump-block",
			Usage:     "print the block at a height as JSON",
			ArgsUsage: "HEIGHT",
			Action:    runDumpBlock,
		},
		{
			Name:      "get-tx",
			Usage:     "print the transaction with a given hex hash",
			ArgsUsage: "TXHASH",
			Action:    runGetTx,
		},
		{
			Name:      "scan",
			Usage:     "scan stealth payments matching a hex-encoded prefix",
			ArgsUsage: "PREFIX",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "bits, b",
					Value: 32,
					Usage: "number of leading `BITS` of PREFIX to match",
				},
				cli.Uint64Flag{
					Name:  "from, f",
					Value: 0,
					Usage: "scan from block `HEIGHT`",
				},
			},
			Action: runScan,
		},
		{
			Name:      "height",
			Usage:     "print the current chain height",
			ArgsUsage: " ",
			Action:    runHeight,
		},
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func requireDirectory(c *cli.Context) string {
	directory := c.GlobalString("directory")
	if "" == directory {
		fmt.Fprintln(os.Stderr, "error: --directory is required")
		os.Exit(1)
	}
	return directory
}
