package discovery_test

import (
	"testing"

	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/discovery"
	"github.com/usnistgov/cmnprobe/perfstat"
)

// respondNodes places an HN-F at (1,1) port 0, an HN-I at (0,2) on both ports, and an RN-D at (3,0) port 1.
func respondNodes(evt cmn.CounterEvent, w perfstat.Workload) string {
	switch {
	case evt.EventType == 0x5 && evt.EventID == 0x0:
		if evt.Node.Coord() == (cmn.Coord{X: 1, Y: 1}) && evt.Node.Port == 0 {
			return "17"
		}
	case evt.EventType == 0x4:
		if evt.Node.Coord() == (cmn.Coord{X: 0, Y: 2}) {
			return perfstat.TokenNotCounted
		}
	case evt.EventType == 0xa:
		if evt.Node.Coord() == (cmn.Coord{X: 3, Y: 0}) && evt.Node.Port == 1 {
			return "0"
		}
	default:
		return respondMesh4x4(evt, w)
	}
	return ""
}

func TestNodes(t *testing.T) {
	assert, require := makeAR(t)

	f, e := newFixture(discovery.Config{}, 8, respondNodes)
	require.NoError(e)
	mesh := cmn.MeshSize{X: 4, Y: 4}

	events, e := f.Runner.DetermineNodes(ctx, mesh)
	require.NoError(e)
	require.Len(events, 4)
	assert.Equal(cmn.NodeAddress{X: 1, Y: 1, Port: 0, Width: cmn.Width9}, events[0].Node)
	assert.Equal(cmn.Count{Value: 17}, events[0].Count)
	assert.Equal(cmn.NodeAddress{X: 0, Y: 2, Port: 1, Width: cmn.Width9}, events[1].Node)
	assert.Equal(cmn.NodeAddress{X: 0, Y: 2, Port: 0, Width: cmn.Width9}, events[2].Node)
	assert.Equal(cmn.NodeAddress{X: 3, Y: 0, Port: 1, Width: cmn.Width9}, events[3].Node)

	assert.Equal([]int{32, 32, 32}, f.Perf.nProbes)
	assert.Equal(events, f.Sink.events[discovery.BatchNodes])
	assert.Len(f.Progress, 3)

	specs := []cmn.EventSpec{}
	for _, name := range f.Runner.Config().Events.Nodes {
		specs = append(specs, f.Catalog[name])
	}
	topo := discovery.NodeMap(mesh, events, specs)
	assert.Equal(mesh, topo.Mesh)
	assert.Len(topo.Nodes, 16)

	hnf := topo.Node(cmn.Coord{X: 1, Y: 1})
	require.NotNil(hnf)
	assert.Equal([]discovery.NodeKind{"hnf"}, hnf.Kinds)
	assert.Equal([]uint8{0}, hnf.Ports)

	hni := topo.Node(cmn.Coord{X: 0, Y: 2})
	require.NotNil(hni)
	assert.Equal([]discovery.NodeKind{"hni"}, hni.Kinds)
	assert.Equal([]uint8{0, 1}, hni.Ports)

	rnd := topo.Node(cmn.Coord{X: 3, Y: 0})
	require.NotNil(rnd)
	assert.Equal([]discovery.NodeKind{"rnid"}, rnd.Kinds)

	routing := topo.Node(cmn.Coord{X: 2, Y: 3})
	require.NotNil(routing)
	assert.True(routing.Routing())
	assert.Nil(topo.Node(cmn.Coord{X: 4, Y: 0}))

	nRouting := 0
	for _, node := range topo.Nodes {
		if node.Routing() {
			nRouting++
		}
	}
	assert.Equal(13, nRouting)
}

func TestNodesBadMesh(t *testing.T) {
	assert, require := makeAR(t)

	f, e := newFixture(discovery.Config{}, 8, respondNodes)
	require.NoError(e)

	events, e := f.Runner.DetermineNodes(ctx, cmn.MeshSize{X: 9, Y: 9})
	assert.ErrorIs(e, cmn.ErrWidth)
	assert.Empty(events)
	assert.Empty(f.Perf.workloads)

	_, e = f.Runner.DetermineNodes(ctx, cmn.MeshSize{X: 0, Y: 3})
	assert.ErrorIs(e, discovery.ErrEmptyMesh)

	f, e = newFixture(discovery.Config{Width: cmn.Width11}, 8, respondNodes)
	require.NoError(e)
	_, e = f.Runner.DetermineNodes(ctx, cmn.MeshSize{X: 9, Y: 9})
	assert.NoError(e)
}
