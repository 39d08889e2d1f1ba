package main

import (
	"testing"

	"github.com/usnistgov/cmnprobe/core/testenv"
)

func TestParseCores(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	cores, e := parseCores("0,64")
	require.NoError(e)
	assert.Equal([2]int{0, 64}, cores)

	cores, e = parseCores(" 3, 5")
	require.NoError(e)
	assert.Equal([2]int{3, 5}, cores)

	_, e = parseCores("1")
	assert.Error(e)
	_, e = parseCores("1,2,3")
	assert.Error(e)
	_, e = parseCores("a,b")
	assert.Error(e)
}
