package discovery

import (
	"context"

	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/zyedidia/generic"
	"go.uber.org/zap"
)

// BatchMesh is the Sink batch name of DetermineMesh.
const BatchMesh = "mxp"

// DetermineMesh determines the mesh dimension.
//
// A crosspoint counter is probed on both ports of every coordinate addressable with the configured width,
// while the system is idle. Non-existent crosspoints report "not supported" and are excluded by the
// decoder, so the mesh extends to the largest responding coordinate.
func (r *Runner) DetermineMesh(ctx context.Context) (mesh cmn.MeshSize, e error) {
	logger.Info("determining mesh size", zap.Uint8("width", uint8(r.cfg.Width)))
	specs, e := r.resolve(r.cfg.Events.Mesh)
	if e != nil {
		return mesh, e
	}

	size := r.cfg.gridSize()
	probes := r.grid(cmn.MeshSize{X: size, Y: size}, specs, 1, 0)
	events, e := r.measure(ctx, probes, r.idle())
	if e != nil {
		return mesh, e
	}
	r.report(BatchMesh, 1, 1, "")
	if e = r.save(BatchMesh, events); e != nil {
		return mesh, e
	}

	if mesh = MeshFromEvents(events); mesh.Empty() {
		return mesh, ErrEmptyMesh
	}
	logger.Info("mesh size determined", zap.Stringer("mesh", mesh))
	return mesh, nil
}

// MeshFromEvents computes mesh dimension as one past the largest coordinate among events.
// Returns zero MeshSize if events is empty.
func MeshFromEvents(events []cmn.CounterEvent) (mesh cmn.MeshSize) {
	for _, evt := range events {
		mesh.X = generic.Max(mesh.X, evt.Node.X+1)
		mesh.Y = generic.Max(mesh.Y, evt.Node.Y+1)
	}
	return mesh
}
