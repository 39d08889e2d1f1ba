// Command cmnprobe-pingpong generates cache coherency traffic between two cores.
//
// It prints the elapsed time in microseconds.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/cmnprobe/core/logging"
	"github.com/usnistgov/cmnprobe/mk/version"
	"github.com/usnistgov/cmnprobe/pingpong"
	"go.uber.org/zap"
)

var logger = logging.New("main")

// parseCores parses a "a,b" core list.
func parseCores(input string) (cores [2]int, e error) {
	tokens := strings.Split(input, ",")
	if len(tokens) != 2 {
		return cores, fmt.Errorf("--cores %q must have two comma-separated core numbers", input)
	}
	for i, token := range tokens {
		if cores[i], e = strconv.Atoi(strings.TrimSpace(token)); e != nil {
			return cores, fmt.Errorf("--cores %q: %w", input, e)
		}
	}
	return cores, nil
}

var (
	cfg       pingpong.Config
	coresFlag string
	stats     bool
)

var app = &cli.App{
	Name:    "cmnprobe-pingpong",
	Version: version.Get().String(),
	Usage:   "Bounce a cache line between two cores.",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:        "num-iterations",
			Usage:       "round trips per sample",
			Value:       pingpong.DefaultRoundTrips,
			Destination: &cfg.RoundTrips,
		},
		&cli.IntFlag{
			Name:        "num-samples",
			Usage:       "number of samples",
			Value:       pingpong.DefaultSamples,
			Destination: &cfg.Samples,
		},
		&cli.StringFlag{
			Name:        "cores",
			Aliases:     []string{"c"},
			Usage:       "ping and pong `cores`, comma separated",
			Required:    true,
			Destination: &coresFlag,
		},
		&cli.BoolFlag{
			Name:        "stats",
			Usage:       "print per-sample statistics as JSON",
			Destination: &stats,
		},
	},
	Action: func(c *cli.Context) (e error) {
		if cfg.Cores, e = parseCores(coresFlag); e != nil {
			return e
		}
		res, e := pingpong.Run(cfg)
		if e != nil {
			return e
		}
		fmt.Println(res.Elapsed.Microseconds())
		if stats {
			return json.NewEncoder(os.Stdout).Encode(res)
		}
		return nil
	},
}

func main() {
	if e := app.Run(os.Args); e != nil {
		logger.Fatal("cmnprobe-pingpong error", zap.Error(e))
	}
}
