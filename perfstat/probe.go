// Package perfstat builds perf stat probes for CMN PMU events, runs them, and decodes the results.
package perfstat

import (
	"fmt"

	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/core/logging"
)

var logger = logging.New("perfstat")

// Probe is a perf event specifier targeting one node, such as
// "arm_cmn_0/type=0x5,eventid=0x1,bynodeid=0x1,nodeid=0x68/".
type Probe string

// MakeProbe constructs a probe for an event at a node.
// Panics if addr is invalid.
func MakeProbe(cmnIndex uint8, addr cmn.NodeAddress, spec cmn.EventSpec) Probe {
	return Probe(fmt.Sprintf("arm_cmn_%d/%s,bynodeid=0x1,nodeid=%#x/", cmnIndex, spec.Raw, addr.ID()))
}

// GridConfig describes a batch of probes across a mesh.
type GridConfig struct {
	CMNIndex uint8
	Mesh     cmn.MeshSize
	Width    cmn.Width
	// Events is the list of events probed at every coordinate.
	Events []cmn.EventSpec
	// Ports is the list of ports probed for every event.
	Ports []uint8
}

// Grid constructs probes for every coordinate, event, and port.
// Coordinates are enumerated X-major; at each coordinate, events are in the given order,
// and each event is probed on the given ports in order.
func Grid(cfg GridConfig) (probes []Probe) {
	for _, coord := range cfg.Mesh.Coords() {
		for _, spec := range cfg.Events {
			for _, port := range cfg.Ports {
				addr := cmn.NodeAddress{X: coord.X, Y: coord.Y, Port: port, Width: cfg.Width}
				probes = append(probes, MakeProbe(cfg.CMNIndex, addr, spec))
			}
		}
	}
	return probes
}
