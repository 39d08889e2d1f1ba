// Package discovery determines the topology of a CMN mesh by probing crosspoint counters.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/cmn/cmnevent"
	"github.com/usnistgov/cmnprobe/core/events"
	"github.com/usnistgov/cmnprobe/core/hwinfo"
	"github.com/usnistgov/cmnprobe/core/logging"
	"github.com/usnistgov/cmnprobe/perfstat"
	"go.uber.org/zap"
)

var logger = logging.New("discovery")

// Errors.
var (
	ErrEmptyMesh   = errors.New("no crosspoint responded; check nodeidLength and perf permissions")
	ErrNoBenchmark = errors.New("benchmark.path is missing")
	ErrNoClusters  = errors.New("fewer than two core clusters")
)

// EvtProgress is emitted after each probe iteration, with a Progress argument.
const EvtProgress = "progress"

// Progress describes discovery progress.
type Progress struct {
	Step  string
	Done  int
	Total int
	Label string
}

func (p Progress) String() string {
	return fmt.Sprintf("%s [%d/%d] %s", p.Step, p.Done, p.Total, p.Label)
}

// Sink receives discovery results.
type Sink interface {
	// WriteEvents saves counter readings of one probe batch.
	// batch is a slash-separated relative name without extension, such as "cores/cores_0_2".
	WriteEvents(batch string, events []cmn.CounterEvent) error

	// WriteLines saves a text file.
	WriteLines(filename string, lines []string) error

	// WriteJSON saves a JSON file.
	WriteJSON(filename string, value any) error
}

// Deps contains dependencies of Runner.
type Deps struct {
	Catalog  cmnevent.Catalog
	Executor perfstat.Executor
	// Hardware defaults to hwinfo.Default.
	Hardware hwinfo.Provider
	// Sink may be nil, in which case results are not saved.
	Sink Sink
}

// Runner executes discovery algorithms.
// Algorithms run strictly sequentially; a Runner must not be used concurrently.
type Runner struct {
	Deps
	cfg      Config
	progress events.Topic[Progress]
}

// NewRunner creates a Runner.
func NewRunner(cfg Config, deps Deps) (*Runner, error) {
	if deps.Catalog == nil || deps.Executor == nil {
		return nil, errors.New("catalog and executor are required")
	}
	if deps.Hardware == nil {
		deps.Hardware = hwinfo.Default
	}

	cfg.applyDefaults(deps.Hardware.Cores().CountNumaSockets())
	if e := cfg.validate(); e != nil {
		return nil, e
	}

	return &Runner{
		Deps:     deps,
		cfg:      cfg,
		progress: events.NewTopic[Progress](events.NewEmitter(), EvtProgress),
	}, nil
}

// Config returns the effective configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// OnProgress registers a callback that receives progress updates.
func (r *Runner) OnProgress(cb func(p Progress)) io.Closer {
	return r.progress.On(cb)
}

func (r *Runner) report(step string, done, total int, label string) {
	r.progress.Emit(Progress{Step: step, Done: done, Total: total, Label: label})
}

func (r *Runner) resolve(names ...string) (specs []cmn.EventSpec, e error) {
	for _, name := range names {
		spec, e := r.Catalog.Resolve(name)
		if e != nil {
			return nil, e
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// checkMesh rejects a mesh that is empty or not addressable with the configured width.
func (r *Runner) checkMesh(mesh cmn.MeshSize) error {
	if mesh.Empty() {
		return ErrEmptyMesh
	}
	if limit := r.cfg.Width.MaxMesh(); mesh.X > limit || mesh.Y > limit {
		return fmt.Errorf("%w %d: mesh %s exceeds %dx%d", cmn.ErrWidth, r.cfg.Width, mesh, limit, limit)
	}
	return nil
}

func (r *Runner) grid(mesh cmn.MeshSize, specs []cmn.EventSpec, ports ...uint8) []perfstat.Probe {
	return perfstat.Grid(perfstat.GridConfig{
		CMNIndex: r.cfg.CMNIndex,
		Mesh:     mesh,
		Width:    r.cfg.Width,
		Events:   specs,
		Ports:    ports,
	})
}

func (r *Runner) idle() perfstat.Workload {
	return perfstat.IdleWorkload(r.cfg.Idle.Duration())
}

// benchmark constructs the benchmark workload pinned to two cores.
func (r *Runner) benchmark(args []string, cores [2]int) perfstat.Workload {
	w := perfstat.Workload{Path: r.cfg.Benchmark.Path}
	w.Args = append(w.Args, args...)
	w.Args = append(w.Args, "--cores", fmt.Sprintf("%d,%d", cores[0], cores[1]))
	return w
}

// measure runs one probe batch and decodes its result.
func (r *Runner) measure(ctx context.Context, probes []perfstat.Probe, workload perfstat.Workload) ([]cmn.CounterEvent, error) {
	raw, e := r.Executor.Run(ctx, probes, workload)
	if e != nil {
		return nil, e
	}
	return perfstat.Decode(raw, r.cfg.Width)
}

func (r *Runner) save(batch string, events []cmn.CounterEvent) error {
	if r.Sink == nil {
		return nil
	}
	if e := r.Sink.WriteEvents(batch, events); e != nil {
		return fmt.Errorf("save %s: %w", batch, e)
	}
	logger.Debug("saved", zap.String("batch", batch), zap.Int("events", len(events)))
	return nil
}

// clusters returns the number of core clusters.
// Benchmark-driven algorithms need at least two.
func (r *Runner) clusters() (n int, e error) {
	n = r.Hardware.Cores().NumProcessors() / r.cfg.CoresPerCluster
	if n < 2 {
		return n, fmt.Errorf("%w: %d processors, %d cores per cluster", ErrNoClusters,
			r.Hardware.Cores().NumProcessors(), r.cfg.CoresPerCluster)
	}
	return n, nil
}

// Measurement is the result of one benchmark-driven probe batch.
type Measurement struct {
	// Batch is the name passed to Sink.
	Batch string `json:"batch"`
	// Cores are the logical cores the benchmark was pinned to.
	Cores [2]int `json:"cores"`
	// Events are the decoded counter readings.
	Events []cmn.CounterEvent `json:"-"`
}

// Hottest returns the events with the highest count.
func (m Measurement) Hottest() []cmn.CounterEvent {
	return Hottest(m.Events)
}

// Hottest returns the events sharing the highest non-zero count.
func Hottest(events []cmn.CounterEvent) (hot []cmn.CounterEvent) {
	var hi uint64
	for _, evt := range events {
		switch {
		case evt.Count.Value == 0:
		case evt.Count.Value > hi:
			hi, hot = evt.Count.Value, []cmn.CounterEvent{evt}
		case evt.Count.Value == hi:
			hot = append(hot, evt)
		}
	}
	return hot
}
