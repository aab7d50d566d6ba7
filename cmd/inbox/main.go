// inbox is a developer tool for the cross-chain inbox: it hashes request
// fixtures and simulates their fulfillment against an in-memory state.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

var app = &cli.App{
	Name:  "inbox",
	Usage: "hash and simulate cross-chain request fulfillments",
	Flags: []cli.Flag{
		VerbosityFlag,
		LogFileFlag,
	},
	Before: func(ctx *cli.Context) error {
		return setupLogging(ctx)
	},
	Commands: []*cli.Command{
		hashCommand,
		simulateCommand,
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
