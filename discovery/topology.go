package discovery

import (
	"context"

	"go.uber.org/zap"
)

// Sink filenames written by DetermineTopology.
const (
	FileCatalog  = "events.csv"
	FileTopology = "topology.json"
)

// DetermineTopology runs mesh size, node placement, and core placement discovery in sequence,
// followed by edge adjacency discovery if enabled, and saves the resulting TopologyMap.
func (r *Runner) DetermineTopology(ctx context.Context) (topo TopologyMap, e error) {
	if e = r.saveCatalog(); e != nil {
		return topo, e
	}

	mesh, e := r.DetermineMesh(ctx)
	if e != nil {
		return topo, e
	}

	nodeEvents, e := r.DetermineNodes(ctx, mesh)
	if e != nil {
		return topo, e
	}
	nodeSpecs, e := r.resolve(r.cfg.Events.Nodes...)
	if e != nil {
		return topo, e
	}
	topo = NodeMap(mesh, nodeEvents, nodeSpecs)

	cores, e := r.DetermineCores(ctx, mesh)
	if e != nil {
		return topo, e
	}
	for _, m := range cores {
		topo.AddCores(m)
	}

	if r.cfg.Edges {
		if topo.Edges, e = r.DetermineEdges(ctx, mesh); e != nil {
			return topo, e
		}
	}

	if r.Sink != nil {
		if e = r.Sink.WriteJSON(FileTopology, topo); e != nil {
			return topo, e
		}
	}
	logger.Info("topology determined", zap.Stringer("mesh", mesh), zap.Int("core-batches", len(topo.Cores)), zap.Int("edge-batches", len(topo.Edges)))
	return topo, nil
}

func (r *Runner) saveCatalog() error {
	if r.Sink == nil {
		return nil
	}
	entries, e := r.Catalog.List()
	if e != nil {
		logger.Warn("cannot list event catalog", zap.Error(e))
		return nil
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, entry.String())
	}
	return r.Sink.WriteLines(FileCatalog, lines)
}
