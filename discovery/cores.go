package discovery

import (
	"context"
	"fmt"

	"github.com/usnistgov/cmnprobe/cmn"
	"go.uber.org/zap"
)

// StepCores is the Sink folder and progress step of DetermineCores.
const StepCores = "cores"

// DetermineCores locates core clusters.
//
// Logical core 0 plays ping-pong with the first core of every other cluster in turn.
// During each run, device port counters on port 0 of every crosspoint are observed;
// the crosspoints hosting the two clusters show the most data flits.
func (r *Runner) DetermineCores(ctx context.Context, mesh cmn.MeshSize) (list []Measurement, e error) {
	if r.cfg.Benchmark.Path == "" {
		return nil, ErrNoBenchmark
	}
	if e := r.checkMesh(mesh); e != nil {
		return nil, e
	}
	nClusters, e := r.clusters()
	if e != nil {
		return nil, e
	}
	logger.Info("determining core placement",
		zap.Stringer("mesh", mesh),
		zap.Int("clusters", nClusters),
		zap.Int("cores-per-cluster", r.cfg.CoresPerCluster),
	)
	specs, e := r.resolve(r.cfg.Events.Cores...)
	if e != nil {
		return nil, e
	}
	probes := r.grid(mesh, specs, 0)

	for n := 1; n < nClusters; n++ {
		m := Measurement{Cores: [2]int{0, r.cfg.CoresPerCluster * n}}
		m.Batch = fmt.Sprintf("%s/cores_%d_%d", StepCores, m.Cores[0], m.Cores[1])
		if m.Events, e = r.measure(ctx, probes, r.benchmark(r.cfg.benchmarkArgs, m.Cores)); e != nil {
			return nil, e
		}
		if e = r.save(m.Batch, m.Events); e != nil {
			return nil, e
		}
		list = append(list, m)
		r.report(StepCores, n, nClusters-1, fmt.Sprintf("cores %d,%d", m.Cores[0], m.Cores[1]))
	}
	return list, nil
}
