package main

import (
	"testing"

	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/core/testenv"
)

func TestParseWidth(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	w, e := parseWidth(11)
	assert.NoError(e)
	assert.Equal(cmn.Width11, w)

	for _, n := range []int{-1, 0, 8, 265, 1 << 20} {
		_, e := parseWidth(n)
		assert.ErrorIs(e, cmn.ErrWidth, n)
	}
}

func TestParseMesh(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	mesh, ok, e := parseMesh(6, 5)
	assert.NoError(e)
	assert.True(ok)
	assert.Equal(cmn.MeshSize{X: 6, Y: 5}, mesh)

	_, ok, e = parseMesh(6, 0)
	assert.NoError(e)
	assert.False(ok)

	_, _, e = parseMesh(65536, 4)
	assert.Error(e)
	_, _, e = parseMesh(4, -1)
	assert.Error(e)
}
