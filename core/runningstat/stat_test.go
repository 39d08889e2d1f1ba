package runningstat_test

import (
	"testing"

	"github.com/usnistgov/cmnprobe/core/runningstat"
	"github.com/usnistgov/cmnprobe/core/testenv"
)

func TestIntStat(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	var a, b runningstat.IntStat
	empty := a.Read()
	assert.EqualValues(0, empty.Count)
	assert.Nil(empty.Min)
	assert.Nil(empty.Max)

	// https://en.wikipedia.org/w/index.php?title=Standard_deviation&oldid=821088286
	// "Sample standard deviation of metabolic rate of Northern Fulmars" section "female", rounded to integers
	input := []uint64{1091, 1490, 1956, 727, 1361, 1086}
	for _, x := range input[:3] {
		a.Push(x)
	}
	for _, x := range input[3:] {
		b.Push(x)
	}

	s := a.Read().Add(b.Read())
	assert.EqualValues(6, s.Count)
	require.NotNil(s.Min)
	require.NotNil(s.Max)
	assert.EqualValues(727, *s.Min)
	assert.EqualValues(1956, *s.Max)
	assert.InDelta(1285.17, s.Mean, 0.1)
	assert.InDelta(421.10, s.Stdev, 0.01)

	assert.Equal(s, s.Add(empty))
	assert.Equal(s, empty.Add(s))

	k := s.Scale(0.001)
	assert.InDelta(1.285, k.Mean, 0.001)
	assert.InDelta(0.4211, k.Stdev, 0.001)
	assert.EqualValues(1, *k.Max)
}
