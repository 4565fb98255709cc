package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/bitRAKE/math/epoch"
	"github.com/bitRAKE/math/internal/affinity"
	"github.com/bitRAKE/math/internal/progress"
	"github.com/bitRAKE/math/sweep"
	"github.com/bitRAKE/math/workerpool"
)

const (
	defaultK          = 200
	defaultTileLen    = 65536
	defaultBatchTiles = 128
)

func main() {
	log.SetFlags(log.LstdFlags)

	app := cli.NewApp()
	app.Name = "smoothblock"
	app.Usage = "stream the m(k) plateau sequence for Erdos problem 962"
	app.ArgsUsage = "[K] [threads] [tile_len] [batch_tiles]"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "progress",
			Usage: "report sweep progress on stderr",
		},
	}
	app.Action = func(c *cli.Context) error {
		return run(c)
	}

	if err := app.Run(os.Args); err != nil {
		log.Printf("smoothblock: %v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	K, err := positionalUint(c, 0, defaultK)
	if err != nil {
		return errors.Wrap(err, "smoothblock: parsing K")
	}
	threads, err := positionalUint(c, 1, 0)
	if err != nil {
		return errors.Wrap(err, "smoothblock: parsing thread count")
	}
	tileLen, err := positionalUint(c, 2, defaultTileLen)
	if err != nil {
		return errors.Wrap(err, "smoothblock: parsing tile_len")
	}
	batchTiles, err := positionalUint(c, 3, defaultBatchTiles)
	if err != nil {
		return errors.Wrap(err, "smoothblock: parsing batch_tiles")
	}

	if err := affinity.LowerPriority(); err != nil {
		log.Printf("smoothblock: could not lower process priority: %v", err)
	}

	pool := workerpool.New(int(threads))
	if err := pool.Start(context.Background()); err != nil {
		return errors.Wrap(err, "smoothblock: starting worker pool")
	}
	defer func() {
		if err := pool.Stop(); err != nil {
			log.Printf("smoothblock: stopping worker pool: %v", err)
		}
	}()

	coordinator := epoch.NewCoordinator(pool, tileLen, uint64(pool.Threads()), batchTiles)
	driver := &sweep.Driver{Coordinator: coordinator}

	if c.Bool("progress") {
		bar := progress.New(int64(K), "k")
		driver.Progress = func(k, _, _ uint64) { bar.Set(int64(k)) }
		defer bar.Finish()
	}

	_, err = driver.Run(os.Stdout, K)
	if err == epoch.ErrSaturated {
		return errors.Wrap(err, "smoothblock: search range exhausted 64-bit arithmetic")
	}
	return err
}

// positionalUint reads positional argument i as a non-negative decimal
// integer, or returns def when the argument is absent (spec.md section
// 6: every CLI argument is optional).
func positionalUint(c *cli.Context, i int, def uint64) (uint64, error) {
	arg := c.Args().Get(i)
	if arg == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid argument %q", arg)
	}
	return v, nil
}
