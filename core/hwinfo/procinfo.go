package hwinfo

import (
	"fmt"

	procinfo "github.com/c9s/goprocinfo/linux"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	pathCPUInfo     = "/proc/cpuinfo"
	pathSystemNode  = "/sys/devices/system/node"
	maxPhysicalCore = 4096
	maxNumaNode     = 32
)

// NewProcfsProvider creates a Provider that reads processor enumeration from a cpuinfo file
// and NUMA membership from a sysfs node directory.
// If a processor does not appear under any NUMA node, it is assigned to socket 0.
func NewProcfsProvider(cpuinfoPath, nodeDir string) Provider {
	return &procinfoProvider{
		cpuinfoPath: cpuinfoPath,
		nodeDir:     nodeDir,
	}
}

type procinfoProvider struct {
	cpuinfoPath string
	nodeDir     string
	cachedCores Cores
}

func (p *procinfoProvider) Cores() (cores Cores) {
	if len(p.cachedCores) > 0 {
		return p.cachedCores
	}

	cpuInfo, e := procinfo.ReadCPUInfo(p.cpuinfoPath)
	if e != nil {
		logger.Panic(p.cpuinfoPath, zap.Error(e))
	}

	for _, processor := range cpuInfo.Processors {
		cores = append(cores, CoreInfo{
			NumaSocket:   p.findNumaSocket(processor),
			PhysicalCore: maxPhysicalCore*int(processor.PhysicalId) + int(processor.CoreId),
			LogicalCore:  int(processor.Id),
		})
	}

	logger.Debug("processor enumeration",
		zap.String("path", p.cpuinfoPath),
		zap.Int("processors", len(cores)),
	)
	p.cachedCores = cores
	return cores
}

func (p *procinfoProvider) findNumaSocket(processor procinfo.Processor) int {
	for i := 0; i < maxNumaNode; i++ {
		path := fmt.Sprintf("%s/node%d/cpu%d", p.nodeDir, i, processor.Id)
		if unix.Access(path, unix.F_OK) == nil {
			return i
		}
	}
	return 0
}
