package discovery

import (
	"context"
	"strings"

	"github.com/usnistgov/cmnprobe/cmn"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// BatchNodes is the Sink batch name of DetermineNodes.
const BatchNodes = "nodes"

// DetermineNodes locates home nodes and I/O request nodes.
//
// For each node event, a probe batch covers both ports of every coordinate while the system is idle.
// A node counter is only implemented at crosspoints that host such a node, so the union of decoded
// events reveals node placement. Readings are returned in event order.
func (r *Runner) DetermineNodes(ctx context.Context, mesh cmn.MeshSize) (events []cmn.CounterEvent, e error) {
	if e := r.checkMesh(mesh); e != nil {
		return nil, e
	}
	logger.Info("determining node placement", zap.Stringer("mesh", mesh))
	specs, e := r.resolve(r.cfg.Events.Nodes...)
	if e != nil {
		return nil, e
	}

	for i, spec := range specs {
		probes := r.grid(mesh, []cmn.EventSpec{spec}, 1, 0)
		batch, e := r.measure(ctx, probes, r.idle())
		if e != nil {
			return nil, e
		}
		events = append(events, batch...)
		r.report(BatchNodes, i+1, len(specs), spec.Name)
	}

	if e = r.save(BatchNodes, events); e != nil {
		return nil, e
	}
	return events, nil
}

// NodeKind is the kind of a node attached to a crosspoint.
// It is the event name prefix, such as "hnf".
type NodeKind string

// KindOf returns the NodeKind probed by an event.
func KindOf(spec cmn.EventSpec) NodeKind {
	kind, _, _ := strings.Cut(spec.Name, "_")
	return NodeKind(kind)
}

// TopologyNode describes a crosspoint.
type TopologyNode struct {
	cmn.Coord
	// Kinds lists attached nodes.
	// Empty means the crosspoint only routes traffic.
	Kinds []NodeKind `json:"kinds,omitempty"`
	// Ports lists device ports at which an attached node responded.
	Ports []uint8 `json:"ports,omitempty"`
	// Cores lists logical cores whose benchmark traffic was hottest at this crosspoint.
	Cores []int `json:"cores,omitempty"`
}

// Routing determines whether no node is attached to the crosspoint.
func (node TopologyNode) Routing() bool {
	return len(node.Kinds) == 0
}

// TopologyMap describes the mesh.
type TopologyMap struct {
	Mesh cmn.MeshSize `json:"mesh"`
	// Nodes has one entry per coordinate, in X-major order.
	Nodes []TopologyNode `json:"nodes"`
	// Cores lists core placement measurements.
	Cores []Measurement `json:"coreBatches,omitempty"`
	// Edges lists edge adjacency measurements.
	Edges []Measurement `json:"edgeBatches,omitempty"`
}

// Node returns the crosspoint at a coordinate.
func (topo *TopologyMap) Node(c cmn.Coord) *TopologyNode {
	if c.X >= topo.Mesh.X || c.Y >= topo.Mesh.Y {
		return nil
	}
	return &topo.Nodes[int(c.X)*int(topo.Mesh.Y)+int(c.Y)]
}

// AddCores records a core placement measurement.
// Cores are attributed to the crosspoints of the hottest readings.
func (topo *TopologyMap) AddCores(m Measurement) {
	topo.Cores = append(topo.Cores, m)
	for _, evt := range m.Hottest() {
		node := topo.Node(evt.Node.Coord())
		if node == nil {
			continue
		}
		for _, core := range m.Cores {
			if !slices.Contains(node.Cores, core) {
				node.Cores = append(node.Cores, core)
			}
		}
	}
}

// NodeMap classifies every crosspoint according to node placement events.
// specs are the events probed by DetermineNodes; readings not matching any spec are ignored.
func NodeMap(mesh cmn.MeshSize, events []cmn.CounterEvent, specs []cmn.EventSpec) (topo TopologyMap) {
	topo.Mesh = mesh
	for _, c := range mesh.Coords() {
		topo.Nodes = append(topo.Nodes, TopologyNode{Coord: c})
	}

	for _, evt := range events {
		node := topo.Node(evt.Node.Coord())
		if node == nil {
			continue
		}
		for _, spec := range specs {
			if !evt.Matches(spec) {
				continue
			}
			if kind := KindOf(spec); !slices.Contains(node.Kinds, kind) {
				node.Kinds = append(node.Kinds, kind)
			}
			if !slices.Contains(node.Ports, evt.Node.Port) {
				node.Ports = append(node.Ports, evt.Node.Port)
				slices.Sort(node.Ports)
			}
		}
	}
	return topo
}
