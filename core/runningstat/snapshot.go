package runningstat

import (
	"github.com/zyedidia/generic"
)

func combineMinMax(f func(a, b uint64) uint64, a, b *uint64) (uint64, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return f(*a, *b), true
}

func scaleMinMax(x *uint64, ratio float64) (uint64, bool) {
	if x == nil {
		return 0, false
	}
	return uint64(float64(*x) * ratio), true
}

// Snapshot contains a snapshot of IntStat reading.
type Snapshot struct {
	Count    uint64  `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Stdev    float64 `json:"stdev"`
	M1       float64 `json:"-"`
	M2       float64 `json:"-"`
	Min      *uint64 `json:"min,omitempty"`
	Max      *uint64 `json:"max,omitempty"`
}

// Add combines stats with another instance.
func (s Snapshot) Add(o Snapshot) Snapshot {
	if s.Count == 0 {
		return o
	} else if o.Count == 0 {
		return s
	}
	n := s.Count + o.Count
	aN, bN, cN := float64(s.Count), float64(o.Count), float64(n)
	delta := o.M1 - s.M1
	m1 := (aN*s.M1 + bN*o.M1) / cN
	m2 := s.M2 + o.M2 + delta*delta*aN*bN/cN
	min, hasMin := combineMinMax(generic.Min[uint64], s.Min, o.Min)
	max, hasMax := combineMinMax(generic.Max[uint64], s.Max, o.Max)
	return newSnapshot(n, m1, m2, hasMin && hasMax, min, max)
}

// Scale multiplies every number by a ratio.
func (s Snapshot) Scale(ratio float64) Snapshot {
	m1, m2 := s.M1*ratio, s.M2*ratio*ratio
	min, hasMin := scaleMinMax(s.Min, ratio)
	max, hasMax := scaleMinMax(s.Max, ratio)
	return newSnapshot(s.Count, m1, m2, hasMin && hasMax, min, max)
}
