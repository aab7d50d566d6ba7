package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var hashCommand = &cli.Command{
	Name:      "hash",
	Usage:     "Print the hash of request fixtures",
	ArgsUsage: "<fixture> [<fixture>...]",
	Flags: []cli.Flag{
		ParallelFlag,
		DumpFlag,
	},
	Action: runHash,
}

// hashFixtures loads and hashes the given fixtures, at most limit at a time.
// The hashes are returned in input order.
func hashFixtures(files []string, limit int) ([]common.Hash, error) {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	var (
		g      errgroup.Group
		hashes = make([]common.Hash, len(files))
	)
	g.SetLimit(limit)
	for i, file := range files {
		g.Go(func() error {
			fx, err := loadFixture(file)
			if err != nil {
				return err
			}
			hashes[i] = fx.Request.CrossChainRequest().Hash()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hashes, nil
}

func runHash(ctx *cli.Context) error {
	files := ctx.Args().Slice()
	if len(files) == 0 {
		return errors.New("no fixtures given")
	}
	hashes, err := hashFixtures(files, ctx.Int(ParallelFlag.Name))
	if err != nil {
		return err
	}
	for i, file := range files {
		fmt.Printf("%s  %s\n", hashes[i].Hex(), file)
		if ctx.Bool(DumpFlag.Name) {
			fx, err := loadFixture(file)
			if err != nil {
				return err
			}
			spew.Dump(fx.Request.CrossChainRequest())
		}
	}
	return nil
}
