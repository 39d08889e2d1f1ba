package discovery

import (
	"context"
	"fmt"

	"github.com/usnistgov/cmnprobe/cmn"
	"go.uber.org/zap"
)

// StepEdges is the Sink folder and progress step of DetermineEdges.
const StepEdges = "edges"

// EdgePair is a pair of cluster indices, X < Y.
type EdgePair struct {
	X int
	Y int
}

// EdgePairs enumerates cluster pairs for edge adjacency discovery.
// Pairs whose clusters are skip apart share a crosspoint and generate no mesh link traffic, so they are omitted.
func EdgePairs(nClusters, skip int) (pairs []EdgePair) {
	for x := 0; x < nClusters; x++ {
		for y := x + 1; y < nClusters; y++ {
			if y >= skip && x == y-skip {
				continue
			}
			pairs = append(pairs, EdgePair{x, y})
		}
	}
	return pairs
}

// DetermineEdges observes mesh link traffic between every pair of core clusters.
//
// For each pair, the benchmark is pinned to the first core of both clusters, and the north, south,
// east, and west link counters on port 0 of every crosspoint are observed.
func (r *Runner) DetermineEdges(ctx context.Context, mesh cmn.MeshSize) (list []Measurement, e error) {
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
	skip := r.cfg.skip()
	pairs := EdgePairs(nClusters, skip)
	logger.Info("determining edge adjacency",
		zap.Stringer("mesh", mesh),
		zap.Int("clusters", nClusters),
		zap.String("numa", string(r.cfg.NumaMode)),
		zap.Int("skip", skip),
		zap.Int("pairs", len(pairs)),
	)
	specs, e := r.resolve(r.cfg.Events.Edges...)
	if e != nil {
		return nil, e
	}
	probes := r.grid(mesh, specs, 0)

	cpc := r.cfg.CoresPerCluster
	for i, pair := range pairs {
		m := Measurement{Cores: [2]int{cpc * pair.X, cpc * pair.Y}}
		m.Batch = fmt.Sprintf("%s/edges_%d_%d", StepEdges, m.Cores[0], m.Cores[1])
		if m.Events, e = r.measure(ctx, probes, r.benchmark(r.cfg.edgeArgs, m.Cores)); e != nil {
			return nil, e
		}
		if e = r.save(m.Batch, m.Events); e != nil {
			return nil, e
		}
		list = append(list, m)
		r.report(StepEdges, i+1, len(pairs), fmt.Sprintf("clusters %d,%d", pair.X, pair.Y))
	}
	return list, nil
}
