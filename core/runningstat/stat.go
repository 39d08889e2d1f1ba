// Package runningstat implements Knuth and Welford's method for computing the standard deviation.
package runningstat

import (
	"math"

	"github.com/zyedidia/generic"
)

// IntStat collects statistics over unsigned integer inputs and allows computing min, max, mean, and variance.
// Algorithm comes from https://www.johndcook.com/blog/standard_deviation/ .
// The zero value is ready for use.
type IntStat struct {
	n        uint64
	m1, m2   float64
	min, max uint64
}

// Push adds an input.
func (s *IntStat) Push(x uint64) {
	s.n++
	if s.n == 1 {
		s.m1, s.m2 = float64(x), 0
		s.min, s.max = x, x
		return
	}
	s.min, s.max = generic.Min(s.min, x), generic.Max(s.max, x)
	delta := float64(x) - s.m1
	s.m1 += delta / float64(s.n)
	s.m2 += delta * (float64(x) - s.m1)
}

// Read returns current counters as Snapshot.
func (s IntStat) Read() Snapshot {
	return newSnapshot(s.n, s.m1, s.m2, s.n > 0, s.min, s.max)
}

func newSnapshot(n uint64, m1, m2 float64, hasMinMax bool, min, max uint64) (s Snapshot) {
	s.Count = n
	s.M1, s.M2 = m1, m2
	if n > 0 {
		s.Mean = m1
	}
	if n > 1 {
		s.Variance = m2 / float64(n-1)
		s.Stdev = math.Sqrt(s.Variance)
	}
	if n > 0 && hasMinMax {
		s.Min, s.Max = &min, &max
	}
	return
}
