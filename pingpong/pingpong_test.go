package pingpong_test

import (
	"runtime"
	"testing"

	"github.com/usnistgov/cmnprobe/core/testenv"
	"github.com/usnistgov/cmnprobe/pingpong"
)

var makeAR = testenv.MakeAR

func TestUnpinned(t *testing.T) {
	if runtime.NumCPU() < 2 {
		t.Skip("need at least two CPUs")
	}
	assert, require := makeAR(t)

	res, e := pingpong.Run(pingpong.Config{
		Cores:      [2]int{pingpong.Unpinned, pingpong.Unpinned},
		RoundTrips: 1000,
		Samples:    3,
	})
	require.NoError(e)
	assert.Equal([2]uint64{3000, 3000}, res.Transitions)
	assert.EqualValues(3, res.Samples.Count)
	assert.Greater(res.Elapsed.Nanoseconds(), int64(0))
	require.NotNil(res.Samples.Max)
	assert.LessOrEqual(*res.Samples.Max, uint64(res.Elapsed))
}

func TestPinned(t *testing.T) {
	if runtime.NumCPU() < 2 {
		t.Skip("need at least two CPUs")
	}
	assert, require := makeAR(t)

	res, e := pingpong.Run(pingpong.Config{
		Cores:      [2]int{0, 1},
		RoundTrips: 100,
		Samples:    1,
	})
	if e != nil {
		t.Skipf("cannot pin to cores 0,1: %v", e)
	}
	require.NoError(e)
	assert.Equal([2]uint64{100, 100}, res.Transitions)
}

func TestPinFailure(t *testing.T) {
	assert, _ := makeAR(t)

	_, e := pingpong.Run(pingpong.Config{
		Cores:      [2]int{pingpong.Unpinned, 1 << 20},
		RoundTrips: 10,
		Samples:    1,
	})
	assert.Error(e)
}

func TestInvalid(t *testing.T) {
	assert, _ := makeAR(t)

	_, e := pingpong.Run(pingpong.Config{Cores: [2]int{-2, 0}, RoundTrips: -1})
	assert.Error(e)
}
