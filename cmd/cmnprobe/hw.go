package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/cmnprobe/core/hwinfo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func init() {
	defineCommand(&cli.Command{
		Category: "info",
		Name:     "list-events",
		Usage:    "List CMN PMU events",
		Action: func(c *cli.Context) error {
			entries, e := catalog.List()
			if e != nil {
				return e
			}
			for _, entry := range entries {
				fmt.Println(entry)
			}
			return nil
		},
	})
}

func init() {
	defineCommand(&cli.Command{
		Category: "info",
		Name:     "show-cores",
		Usage:    "Show logical cores and NUMA sockets",
		Action: func(c *cli.Context) error {
			cores := hwinfo.Default.Cores()
			bySocket := cores.ByNumaSocket()
			sockets := maps.Keys(bySocket)
			slices.Sort(sockets)
			for _, socket := range sockets {
				fmt.Printf("socket %d: %d cores\n", socket, len(bySocket[socket]))
			}
			return printJSON(cores)
		},
	})
}
