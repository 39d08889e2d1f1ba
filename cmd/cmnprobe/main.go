// Command cmnprobe discovers the topology of an Arm CMN mesh interconnect with perf counters.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/cmn/cmnevent"
	"github.com/usnistgov/cmnprobe/core/hwinfo"
	"github.com/usnistgov/cmnprobe/core/logging"
	"github.com/usnistgov/cmnprobe/core/yamlflag"
	"github.com/usnistgov/cmnprobe/discovery"
	"github.com/usnistgov/cmnprobe/mk/version"
	"github.com/usnistgov/cmnprobe/perfstat"
	"github.com/usnistgov/cmnprobe/resultdir"
	"go.uber.org/zap"
)

var logger = logging.New("main")

var (
	cfg          discovery.Config
	nodeidLength int
	coresPerDSU  int
	numaConfig   string
	outdir       string
	perfPath     string
	sysfsRoot    string
	logLevel     string
	catalog      *cmnevent.SysfsCatalog
	executor     perfstat.PerfExecutor
	sink         *resultdir.Writer
	runner       *discovery.Runner
)

var app = &cli.App{
	Name:    "cmnprobe",
	Version: version.Get().String(),
	Usage:   "Discover Arm CMN mesh topology via perf counters.",
	Flags: []cli.Flag{
		&cli.GenericFlag{
			Name:  "config",
			Usage: "discovery configuration (YAML, or @filename)",
			Value: yamlflag.New(&cfg),
		},
		&cli.IntFlag{
			Name:        "nodeid-length",
			Usage:       "node identifier bit `width` (7, 9, 11)",
			Destination: &nodeidLength,
		},
		&cli.IntFlag{
			Name:        "cores-per-dsu",
			Usage:       "logical cores per DSU cluster",
			Destination: &coresPerDSU,
		},
		&cli.StringFlag{
			Name:        "numa-config",
			Usage:       "NUMA `mode` (monolithic, hemisphere, quadrant)",
			Destination: &numaConfig,
		},
		&cli.StringFlag{
			Name:        "outdir",
			Value:       "data",
			Usage:       "output `directory`, empty to disable",
			Destination: &outdir,
		},
		&cli.StringFlag{
			Name:        "perf",
			Value:       perfstat.DefaultPerfPath,
			Usage:       "perf executable",
			Destination: &perfPath,
		},
		&cli.StringFlag{
			Name:        "sysfs",
			Value:       cmnevent.DefaultSysfsRoot,
			Usage:       "sysfs mount point",
			Destination: &sysfsRoot,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level of all packages (debug, info, warn, error, fatal, or the first letter)",
			Destination: &logLevel,
		},
	},
	Before: func(c *cli.Context) error {
		if logLevel != "" {
			logging.SetAllLevels(logLevel)
		}
		if c.IsSet("nodeid-length") {
			w, e := parseWidth(nodeidLength)
			if e != nil {
				return e
			}
			cfg.Width = w
		}
		if c.IsSet("cores-per-dsu") {
			cfg.CoresPerCluster = coresPerDSU
		}
		if c.IsSet("numa-config") {
			cfg.NumaMode = discovery.NumaMode(numaConfig)
		}
		executor = perfstat.PerfExecutor{PerfPath: perfPath}
		catalog = cmnevent.NewSysfsCatalog(sysfsRoot, cfg.CMNIndex)
		return nil
	},
	After: func(c *cli.Context) error {
		logging.Sync()
		return nil
	},
}

// parseWidth converts --nodeid-length to a node identifier width.
func parseWidth(n int) (cmn.Width, error) {
	if n < 0 || n > math.MaxUint8 || !cmn.Width(n).Valid() {
		return 0, fmt.Errorf("--nodeid-length: %w %d", cmn.ErrWidth, n)
	}
	return cmn.Width(n), nil
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

// openSink creates the run directory of a command, unless output is disabled.
func openSink(prefix string) (e error) {
	if outdir == "" {
		return nil
	}
	sink, e = resultdir.Create(resultdir.Config{
		BasePath: outdir,
		Prefix:   prefix,
	})
	return e
}

// closeSink writes run metadata.
func closeSink(ctx context.Context) error {
	if sink == nil {
		return nil
	}
	meta := resultdir.HostMeta()
	meta.Args = os.Args
	meta.Version = version.Get().String()
	perfVersion, e := executor.Version(ctx)
	if e != nil {
		logger.Warn("cannot determine perf version", zap.Error(e))
	}
	meta.PerfVersion = perfVersion
	return sink.WriteMeta(meta)
}

// openRunner creates the discovery runner.
func openRunner(prefix string) (e error) {
	if e = openSink(prefix); e != nil {
		return e
	}
	deps := discovery.Deps{
		Catalog:  catalog,
		Executor: executor,
		Hardware: hwinfo.Default,
	}
	if sink != nil {
		deps.Sink = sink
		logger.Info("will write data", zap.String("dir", sink.Dir()))
	}
	if runner, e = discovery.NewRunner(cfg, deps); e != nil {
		return e
	}
	runner.OnProgress(printProgress)
	return nil
}

func printProgress(p discovery.Progress) {
	end := ""
	if p.Done == p.Total {
		end = "\n"
	}
	fmt.Fprintf(os.Stderr, "\r[%d/%d] %s %s%s", p.Done, p.Total, p.Step, p.Label, end)
}

func printJSON(value any) error {
	j, e := json.MarshalIndent(value, "", "  ")
	if e != nil {
		return e
	}
	fmt.Println(string(j))
	return nil
}

func main() {
	sort.Sort(cli.CommandsByName(app.Commands))
	if e := app.Run(os.Args); e != nil {
		logger.Fatal("cmnprobe error", zap.Error(e))
	}
}
