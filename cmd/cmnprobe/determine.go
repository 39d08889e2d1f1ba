package main

import (
	"fmt"
	"math"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/discovery"
)

func benchmarkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "benchmark-binary-path",
			Usage: "traffic generator `executable`, such as cmnprobe-pingpong",
		},
		&cli.StringFlag{
			Name:  "benchmark-binary-args",
			Usage: "extra traffic generator arguments, in shell syntax",
		},
	}
}

// applyBenchmarkFlags overrides benchmark configuration with command line flags.
func applyBenchmarkFlags(c *cli.Context) {
	if c.IsSet("benchmark-binary-path") {
		cfg.Benchmark.Path = c.String("benchmark-binary-path")
	}
	if c.IsSet("benchmark-binary-args") {
		cfg.Benchmark.Args = c.String("benchmark-binary-args")
	}
}

var meshX, meshY int

func meshFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "mesh-x",
			Usage:       "mesh `width`, omit to determine",
			Destination: &meshX,
		},
		&cli.IntFlag{
			Name:        "mesh-y",
			Usage:       "mesh `height`, omit to determine",
			Destination: &meshY,
		},
	}
}

// getMesh returns the mesh size from command line, or runs mesh size discovery.
func getMesh(c *cli.Context) (cmn.MeshSize, error) {
	if mesh, ok, e := parseMesh(meshX, meshY); e != nil || ok {
		return mesh, e
	}
	return runner.DetermineMesh(c.Context)
}

// parseMesh converts --mesh-x and --mesh-y to a mesh size.
// ok is false if either flag is omitted or zero.
func parseMesh(x, y int) (mesh cmn.MeshSize, ok bool, e error) {
	for _, v := range []int{x, y} {
		if v < 0 || v > math.MaxUint16 {
			return mesh, false, fmt.Errorf("--mesh-x and --mesh-y must be between 0 and %d", math.MaxUint16)
		}
	}
	if x == 0 || y == 0 {
		return mesh, false, nil
	}
	return cmn.MeshSize{X: uint16(x), Y: uint16(y)}, true, nil
}

func init() {
	var edges bool
	defineCommand(&cli.Command{
		Category: "discovery",
		Name:     "determine-topology",
		Usage:    "Determine mesh size, node placement, and core placement",
		Flags: append(benchmarkFlags(),
			&cli.BoolFlag{
				Name:        "edges",
				Usage:       "also determine edge adjacency",
				Destination: &edges,
			},
		),
		Action: func(c *cli.Context) error {
			applyBenchmarkFlags(c)
			if edges {
				cfg.Edges = true
			}
			if e := openRunner("determine_topology"); e != nil {
				return e
			}
			topo, e := runner.DetermineTopology(c.Context)
			if e != nil {
				return e
			}
			if e = printJSON(topo); e != nil {
				return e
			}
			return closeSink(c.Context)
		},
	})
}

func init() {
	defineCommand(&cli.Command{
		Category: "discovery",
		Name:     "determine-mesh",
		Usage:    "Determine mesh size",
		Action: func(c *cli.Context) error {
			if e := openRunner("determine_mesh"); e != nil {
				return e
			}
			mesh, e := runner.DetermineMesh(c.Context)
			if e != nil {
				return e
			}
			fmt.Println(mesh)
			return closeSink(c.Context)
		},
	})
}

func init() {
	defineCommand(&cli.Command{
		Category: "discovery",
		Name:     "determine-nodes",
		Usage:    "Determine home node and I/O node placement",
		Flags:    meshFlags(),
		Action: func(c *cli.Context) error {
			if e := openRunner("determine_nodes"); e != nil {
				return e
			}
			mesh, e := getMesh(c)
			if e != nil {
				return e
			}
			events, e := runner.DetermineNodes(c.Context, mesh)
			if e != nil {
				return e
			}
			specs := []cmn.EventSpec{}
			for _, name := range runner.Config().Events.Nodes {
				spec, e := catalog.Resolve(name)
				if e != nil {
					return e
				}
				specs = append(specs, spec)
			}
			if e = printJSON(discovery.NodeMap(mesh, events, specs)); e != nil {
				return e
			}
			return closeSink(c.Context)
		},
	})
}

func init() {
	defineCommand(&cli.Command{
		Category: "discovery",
		Name:     "determine-cores",
		Usage:    "Determine core cluster placement",
		Flags:    append(meshFlags(), benchmarkFlags()...),
		Action: func(c *cli.Context) error {
			applyBenchmarkFlags(c)
			if e := openRunner("determine_cores"); e != nil {
				return e
			}
			mesh, e := getMesh(c)
			if e != nil {
				return e
			}
			list, e := runner.DetermineCores(c.Context, mesh)
			if e != nil {
				return e
			}
			printMeasurements(list)
			return closeSink(c.Context)
		},
	})
}

func init() {
	defineCommand(&cli.Command{
		Category: "discovery",
		Name:     "determine-edges",
		Usage:    "Determine mesh link usage between core clusters",
		Flags:    append(meshFlags(), benchmarkFlags()...),
		Action: func(c *cli.Context) error {
			applyBenchmarkFlags(c)
			if e := openRunner("determine_edges"); e != nil {
				return e
			}
			mesh, e := getMesh(c)
			if e != nil {
				return e
			}
			list, e := runner.DetermineEdges(c.Context, mesh)
			if e != nil {
				return e
			}
			printMeasurements(list)
			return closeSink(c.Context)
		},
	})
}

func printMeasurements(list []discovery.Measurement) {
	for _, m := range list {
		fmt.Printf("%s cores=%d,%d", m.Batch, m.Cores[0], m.Cores[1])
		for _, evt := range m.Hottest() {
			fmt.Printf(" %s=%s", evt.Node, evt.Count)
		}
		fmt.Println()
	}
}
