package discovery

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/math"
	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/core/nnduration"
	"go.uber.org/multierr"
)

// NumaMode is the NUMA partitioning mode configured in firmware.
type NumaMode string

// NumaMode values.
const (
	NumaMonolithic NumaMode = "monolithic"
	NumaHemisphere NumaMode = "hemisphere"
	NumaQuadrant   NumaMode = "quadrant"
)

// NumaModeFromSockets guesses NumaMode from the number of NUMA sockets reported by the kernel.
func NumaModeFromSockets(nSockets int) NumaMode {
	switch {
	case nSockets >= 4:
		return NumaQuadrant
	case nSockets >= 2:
		return NumaHemisphere
	default:
		return NumaMonolithic
	}
}

// DefaultThresholds maps each NumaMode to the logical core distance between two clusters that
// share a crosspoint, as observed on CMN-600 in Ampere Altra Max.
var DefaultThresholds = map[NumaMode]int{
	NumaMonolithic: 64,
	NumaHemisphere: 32,
	NumaQuadrant:   16,
}

// Defaults.
const (
	DefaultCoresPerCluster = 2
	DefaultIdle            = 10
	DefaultEdgeArgs        = "--num-samples 2500 --num-iterations 25000"
)

// EventNames contains catalog event names used by each algorithm.
type EventNames struct {
	// Mesh is the crosspoint event probed by DetermineMesh.
	Mesh string `json:"mesh,omitempty"`
	// Nodes are the home node and I/O node events probed by DetermineNodes.
	// The part before the first underscore becomes the NodeKind.
	Nodes []string `json:"nodes,omitempty"`
	// Cores are the device port events probed by DetermineCores.
	Cores []string `json:"cores,omitempty"`
	// Edges are the mesh link events probed by DetermineEdges.
	Edges []string `json:"edges,omitempty"`
}

func (names *EventNames) applyDefaults() {
	if names.Mesh == "" {
		names.Mesh = "mxp_n_dat_txflit_valid"
	}
	if len(names.Nodes) == 0 {
		names.Nodes = []string{"hnf_seq_full", "hni_arready_no_arvalid", "rnid_rdb_hybrid"}
	}
	if len(names.Cores) == 0 {
		names.Cores = []string{"mxp_p0_dat_txflit_valid", "mxp_p1_dat_txflit_valid"}
	}
	if len(names.Edges) == 0 {
		names.Edges = []string{"mxp_n_dat_txflit_valid", "mxp_s_dat_txflit_valid", "mxp_e_dat_txflit_valid", "mxp_w_dat_txflit_valid"}
	}
}

// BenchmarkConfig describes the traffic generator launched during core and edge discovery.
// It must accept a "--cores a,b" flag; cmnprobe-pingpong is such a program.
type BenchmarkConfig struct {
	// Path is the benchmark executable.
	Path string `json:"path,omitempty"`
	// Args are extra arguments passed during core placement, in shell syntax.
	Args string `json:"args,omitempty"`
	// EdgeArgs are arguments passed during edge adjacency, in shell syntax.
	// Default is DefaultEdgeArgs.
	EdgeArgs string `json:"edgeArgs,omitempty"`
}

func (cfg BenchmarkConfig) argv() (args, edgeArgs []string, e error) {
	if args, e = shellquote.Split(cfg.Args); e != nil {
		return nil, nil, fmt.Errorf("benchmark.args: %w", e)
	}
	if edgeArgs, e = shellquote.Split(cfg.EdgeArgs); e != nil {
		return nil, nil, fmt.Errorf("benchmark.edgeArgs: %w", e)
	}
	return args, edgeArgs, nil
}

// Config contains discovery configuration.
type Config struct {
	// CMNIndex is the arm_cmn PMU instance.
	CMNIndex uint8 `json:"cmnIndex"`

	// Width is the node identifier bit width.
	// Default is cmn.DefaultWidth.
	Width cmn.Width `json:"nodeidLength,omitempty"`

	// MeshLimit restricts the brute-force grid of DetermineMesh.
	// Zero means the largest grid addressable with Width.
	MeshLimit int `json:"meshLimit,omitempty"`

	// CoresPerCluster is the number of logical cores in a DSU cluster.
	// Default is DefaultCoresPerCluster.
	CoresPerCluster int `json:"coresPerCluster,omitempty"`

	// NumaMode selects the entry in Thresholds.
	// Default is derived from the NUMA socket count.
	NumaMode NumaMode `json:"numaMode,omitempty"`

	// Thresholds overrides DefaultThresholds.
	Thresholds map[NumaMode]int `json:"thresholds,omitempty"`

	// Idle is the duration of the idle workload, in milliseconds.
	// Default is DefaultIdle.
	Idle nnduration.Milliseconds `json:"idle,omitempty"`

	Events    EventNames      `json:"events"`
	Benchmark BenchmarkConfig `json:"benchmark"`

	// Edges enables edge adjacency discovery in DetermineTopology.
	Edges bool `json:"edges,omitempty"`

	benchmarkArgs []string
	edgeArgs      []string
}

func (cfg *Config) applyDefaults(nNumaSockets int) {
	if cfg.Width == 0 {
		cfg.Width = cmn.DefaultWidth
	}
	if cfg.CoresPerCluster == 0 {
		cfg.CoresPerCluster = DefaultCoresPerCluster
	}
	if cfg.NumaMode == "" {
		cfg.NumaMode = NumaModeFromSockets(nNumaSockets)
	}
	thresholds := map[NumaMode]int{}
	for mode, threshold := range DefaultThresholds {
		thresholds[mode] = threshold
	}
	for mode, threshold := range cfg.Thresholds {
		thresholds[mode] = threshold
	}
	cfg.Thresholds = thresholds
	if cfg.Idle == 0 {
		cfg.Idle = DefaultIdle
	}
	if cfg.Benchmark.EdgeArgs == "" {
		cfg.Benchmark.EdgeArgs = DefaultEdgeArgs
	}
	cfg.Events.applyDefaults()
}

func (cfg *Config) validate() error {
	errs := []error{}
	if !cfg.Width.Valid() {
		errs = append(errs, fmt.Errorf("nodeidLength: %w %d", cmn.ErrWidth, cfg.Width))
	}
	if cfg.MeshLimit < 0 {
		errs = append(errs, errors.New("meshLimit is negative"))
	}
	if cfg.CoresPerCluster < 0 {
		errs = append(errs, errors.New("coresPerCluster is negative"))
	}
	if threshold, ok := cfg.Thresholds[cfg.NumaMode]; !ok {
		errs = append(errs, fmt.Errorf("numaMode %s has no threshold", cfg.NumaMode))
	} else if threshold < 0 {
		errs = append(errs, fmt.Errorf("threshold of numaMode %s is negative", cfg.NumaMode))
	}

	var e error
	if cfg.benchmarkArgs, cfg.edgeArgs, e = cfg.Benchmark.argv(); e != nil {
		errs = append(errs, e)
	}
	return multierr.Combine(errs...)
}

// gridSize returns the brute-force grid dimension.
func (cfg Config) gridSize() uint16 {
	size := int(cfg.Width.MaxMesh())
	if cfg.MeshLimit > 0 {
		size = math.MinInt(size, cfg.MeshLimit)
	}
	return uint16(size)
}

// skip returns the cluster index distance of two clusters sharing a crosspoint.
func (cfg Config) skip() int {
	return cfg.Thresholds[cfg.NumaMode] / cfg.CoresPerCluster
}
