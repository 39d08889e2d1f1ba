// Package hwinfo gathers hardware information.
package hwinfo

import (
	"github.com/usnistgov/cmnprobe/core/logging"
	"github.com/zyedidia/generic"
	"github.com/zyedidia/generic/mapset"
)

var logger = logging.New("hwinfo")

// CoreInfo describes a logical CPU core.
type CoreInfo struct {
	NumaSocket   int `json:"numaSocket"`
	PhysicalCore int `json:"physicalCore"`
	LogicalCore  int `json:"logicalCore"`
}

// Cores contains information about CPU cores.
type Cores []CoreInfo

// ByNumaSocket classifies cores as map[NumaSocket]Cores.
func (cores Cores) ByNumaSocket() (m map[int]Cores) {
	m = map[int]Cores{}
	for _, core := range cores {
		m[core.NumaSocket] = append(m[core.NumaSocket], core)
	}
	return m
}

// CountNumaSockets returns the number of distinct NUMA sockets.
func (cores Cores) CountNumaSockets() int {
	set := mapset.New[int]()
	for _, core := range cores {
		set.Put(core.NumaSocket)
	}
	return set.Size()
}

// ByLogicalCore converts to map[LogicalCore]CoreInfo.
func (cores Cores) ByLogicalCore() (m map[int]CoreInfo) {
	m = map[int]CoreInfo{}
	for _, core := range cores {
		m[core.LogicalCore] = core
	}
	return m
}

// NumProcessors returns the highest logical core number plus one.
// This is the total logical core count when processors are numbered consecutively.
func (cores Cores) NumProcessors() int {
	maxCore := -1
	for _, core := range cores {
		maxCore = generic.Max(maxCore, core.LogicalCore)
	}
	return maxCore + 1
}

// Provider provides information about hardware.
type Provider interface {
	// Cores provides information about CPU cores.
	Cores() Cores
}

// Default is the default Provider implementation.
var Default Provider = NewProcfsProvider(pathCPUInfo, pathSystemNode)
