package main

import (
	"github.com/urfave/cli/v2"
)

var (
	VerbosityFlag = &cli.IntFlag{
		Name:    "verbosity",
		Usage:   "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:   3,
		EnvVars: []string{"INBOX_VERBOSITY"},
	}
	LogFileFlag = &cli.StringFlag{
		Name:    "log.file",
		Usage:   "Write JSON logs to a rotated file instead of the terminal",
		EnvVars: []string{"INBOX_LOG_FILE"},
	}
	ConfigFileFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "TOML configuration file of the inbox",
		EnvVars: []string{"INBOX_CONFIG"},
	}
	ChainIDFlag = &cli.Uint64Flag{
		Name:    "chainid",
		Usage:   "Chain id the inbox is deployed on (overrides config)",
		EnvVars: []string{"INBOX_CHAIN_ID"},
	}
	InboxAddressFlag = &cli.StringFlag{
		Name:    "inbox",
		Usage:   "Address of the inbox contract (overrides config)",
		EnvVars: []string{"INBOX_ADDRESS"},
	}
	ReplayFlag = &cli.BoolFlag{
		Name:  "replay",
		Usage: "Submit the fulfillment a second time to exercise the replay guard",
	}
	DumpFlag = &cli.BoolFlag{
		Name:  "dump",
		Usage: "Dump the decoded requests",
	}
	ParallelFlag = &cli.IntFlag{
		Name:  "parallel",
		Usage: "Number of fixtures hashed concurrently (0 = number of CPUs)",
	}
)
