package main

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging installs the default logger: a terminal handler on stderr, or
// a JSON handler writing to a rotated file if one is configured.
func setupLogging(ctx *cli.Context) error {
	level := log.FromLegacyLevel(ctx.Int(VerbosityFlag.Name))

	if file := ctx.String(LogFileFlag.Name); file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			Compress:   true,
		}
		log.SetDefault(log.NewLogger(log.JSONHandlerWithLevel(rotator, level)))
		return nil
	}
	var (
		output   io.Writer = os.Stderr
		useColor           = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if useColor {
		output = colorable.NewColorableStderr()
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(output, level, useColor)))
	return nil
}
