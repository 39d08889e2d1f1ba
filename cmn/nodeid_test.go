package cmn_test

import (
	"testing"

	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/core/testenv"
)

var makeAR = testenv.MakeAR

func TestWidth(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal(2, cmn.Width7.Split())
	assert.Equal(3, cmn.Width9.Split())
	assert.Equal(4, cmn.Width11.Split())
	assert.EqualValues(4, cmn.Width7.MaxMesh())
	assert.EqualValues(8, cmn.Width9.MaxMesh())
	assert.EqualValues(16, cmn.Width11.MaxMesh())

	for _, w := range []cmn.Width{0, 8, 10, 12, 255} {
		assert.False(w.Valid(), w)
		assert.Equal(0, w.Split(), w)
		assert.EqualValues(0, w.MaxMesh(), w)
	}
}

func TestEncode(t *testing.T) {
	assert, _ := makeAR(t)

	assert.EqualValues(0x00, cmn.NodeAddress{X: 0, Y: 0, Port: 0, Width: cmn.Width9}.ID())
	assert.EqualValues(0x04, cmn.NodeAddress{X: 0, Y: 0, Port: 1, Width: cmn.Width9}.ID())
	assert.EqualValues(0x08, cmn.NodeAddress{X: 0, Y: 1, Port: 0, Width: cmn.Width9}.ID())
	assert.EqualValues(0x40, cmn.NodeAddress{X: 1, Y: 0, Port: 0, Width: cmn.Width9}.ID())
	assert.EqualValues(0x1FC, cmn.NodeAddress{X: 7, Y: 7, Port: 1, Width: cmn.Width9}.ID())
	assert.EqualValues(0x6C, cmn.NodeAddress{X: 3, Y: 1, Port: 1, Width: cmn.Width7}.ID())
	assert.EqualValues(0x7FC, cmn.NodeAddress{X: 15, Y: 15, Port: 1, Width: cmn.Width11}.ID())

	assert.Panics(func() { cmn.NodeAddress{X: 8, Y: 0, Width: cmn.Width9}.ID() })
	assert.Panics(func() { cmn.NodeAddress{X: 0, Y: 4, Width: cmn.Width7}.ID() })
	assert.Panics(func() { cmn.NodeAddress{X: 0, Y: 0, Port: 2, Width: cmn.Width9}.ID() })
	assert.Panics(func() { cmn.NodeAddress{X: 0, Y: 0, Width: 8}.ID() })
}

func TestRoundtrip(t *testing.T) {
	assert, require := makeAR(t)

	for _, w := range []cmn.Width{cmn.Width7, cmn.Width9, cmn.Width11} {
		limit := w.MaxMesh()
		for x := uint16(0); x < limit; x++ {
			for y := uint16(0); y < limit; y++ {
				for port := uint8(0); port <= 1; port++ {
					addr := cmn.NodeAddress{X: x, Y: y, Port: port, Width: w}
					decoded, e := cmn.ParseNodeID(addr.ID(), w)
					require.NoError(e)
					assert.Equal(addr, decoded)
				}
			}
		}
	}
}

func TestParseIgnoresDeviceBits(t *testing.T) {
	assert, require := makeAR(t)

	addr, e := cmn.ParseNodeID(0x6B, cmn.Width9)
	require.NoError(e)
	assert.Equal(cmn.NodeAddress{X: 1, Y: 5, Port: 0, Width: cmn.Width9}, addr)
	assert.Equal(cmn.Coord{X: 1, Y: 5}, addr.Coord())
}

func TestParseUnsupportedWidth(t *testing.T) {
	assert, _ := makeAR(t)

	for _, w := range []cmn.Width{0, 8, 13} {
		_, e := cmn.ParseNodeID(0x68, w)
		assert.ErrorIs(e, cmn.ErrWidth)
	}
}

func TestMeshSize(t *testing.T) {
	assert, _ := makeAR(t)

	assert.True(cmn.MeshSize{}.Empty())
	assert.True(cmn.MeshSize{X: 3}.Empty())

	m := cmn.MeshSize{X: 2, Y: 3}
	assert.False(m.Empty())
	assert.Equal("2x3", m.String())
	assert.Equal([]cmn.Coord{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}, m.Coords())
}

func TestCount(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal("42", cmn.Count{Value: 42}.String())
	assert.Equal("<not counted>", cmn.Count{State: cmn.NotCounted}.String())
	assert.Equal("<not supported>", cmn.Count{State: cmn.Unsupported}.String())
	assert.Equal("not-counted", cmn.NotCounted.String())
	assert.True(cmn.Count{State: cmn.NotCounted}.Supported())
	assert.False(cmn.Count{State: cmn.Unsupported}.Supported())
}
