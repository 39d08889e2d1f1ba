package discovery_test

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/cmn/cmnevent"
	"github.com/usnistgov/cmnprobe/core/hwinfo"
	"github.com/usnistgov/cmnprobe/core/testenv"
	"github.com/usnistgov/cmnprobe/discovery"
	"github.com/usnistgov/cmnprobe/perfstat"
)

var makeAR = testenv.MakeAR

var ctx = context.Background()

type fakeCatalog map[string]cmn.EventSpec

func (c fakeCatalog) Resolve(name string) (cmn.EventSpec, error) {
	spec, ok := c[name]
	if !ok {
		return spec, &cmnevent.ResolveError{Name: name, Err: fs.ErrNotExist}
	}
	return spec, nil
}

func (c fakeCatalog) List() (list []cmnevent.Entry, e error) {
	for name, spec := range c {
		list = append(list, cmnevent.Entry{Name: name, Content: spec.Raw})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func makeCatalog() fakeCatalog {
	c := fakeCatalog{}
	add := func(name string, typ uint8, id uint16) {
		c[name] = cmn.EventSpec{Name: name, Type: typ, EventID: id, Raw: fmt.Sprintf("type=%#x,eventid=%#x", typ, id)}
	}
	add("mxp_n_dat_txflit_valid", 0x5, 0x1)
	add("mxp_s_dat_txflit_valid", 0x5, 0x2)
	add("mxp_e_dat_txflit_valid", 0x5, 0x3)
	add("mxp_w_dat_txflit_valid", 0x5, 0x4)
	add("mxp_p0_dat_txflit_valid", 0x5, 0x5)
	add("mxp_p1_dat_txflit_valid", 0x5, 0x6)
	add("hnf_seq_full", 0x5, 0x0)
	add("hni_arready_no_arvalid", 0x4, 0x20)
	add("rnid_rdb_hybrid", 0xa, 0x11)
	return c
}

// respondFunc returns the count field for a probed node, or "" if the node does not exist.
type respondFunc func(evt cmn.CounterEvent, w perfstat.Workload) string

type fakePerf struct {
	width   cmn.Width
	respond respondFunc
	e       error

	workloads []perfstat.Workload
	nProbes   []int
}

func (f *fakePerf) Run(ctx context.Context, probes []perfstat.Probe, w perfstat.Workload) (string, error) {
	f.workloads = append(f.workloads, w)
	f.nProbes = append(f.nProbes, len(probes))
	if f.e != nil {
		return "", f.e
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n Performance counter stats for '%s':\n\n", w)
	for _, probe := range probes {
		evts, e := perfstat.Decode("0;;"+string(probe)+";1;100.00;;", f.width)
		if e != nil || len(evts) != 1 {
			panic(probe)
		}
		count := f.respond(evts[0], w)
		if count == "" {
			count = perfstat.TokenNotSupported
		}
		fmt.Fprintf(&b, "%s;;%s;10010000;100.00;;\n", count, probe)
	}
	b.WriteString("\n       0.010979402 seconds time elapsed\n\n")
	return b.String(), nil
}

// fakeHardware has n processors, split evenly into two NUMA sockets.
type fakeHardware int

func (n fakeHardware) Cores() (cores hwinfo.Cores) {
	for i := 0; i < int(n); i++ {
		cores = append(cores, hwinfo.CoreInfo{NumaSocket: i * 2 / int(n), PhysicalCore: i, LogicalCore: i})
	}
	return cores
}

type memSink struct {
	events map[string][]cmn.CounterEvent
	lines  map[string][]string
	json   map[string]any
}

func newMemSink() *memSink {
	return &memSink{
		events: map[string][]cmn.CounterEvent{},
		lines:  map[string][]string{},
		json:   map[string]any{},
	}
}

func (s *memSink) WriteEvents(batch string, events []cmn.CounterEvent) error {
	s.events[batch] = events
	return nil
}

func (s *memSink) WriteLines(filename string, lines []string) error {
	s.lines[filename] = lines
	return nil
}

func (s *memSink) WriteJSON(filename string, value any) error {
	s.json[filename] = value
	return nil
}

type fixture struct {
	Runner  *discovery.Runner
	Perf    *fakePerf
	Sink    *memSink
	Catalog fakeCatalog

	progressLock sync.Mutex
	Progress     []discovery.Progress
}

func (f *fixture) onProgress(p discovery.Progress) {
	f.progressLock.Lock()
	defer f.progressLock.Unlock()
	f.Progress = append(f.Progress, p)
}

func newFixture(cfg discovery.Config, nProcessors int, respond respondFunc) (f *fixture, e error) {
	f = &fixture{
		Perf:    &fakePerf{width: cmn.DefaultWidth, respond: respond},
		Sink:    newMemSink(),
		Catalog: makeCatalog(),
	}
	if cfg.Width != 0 {
		f.Perf.width = cfg.Width
	}
	f.Runner, e = discovery.NewRunner(cfg, discovery.Deps{
		Catalog:  f.Catalog,
		Executor: f.Perf,
		Hardware: fakeHardware(nProcessors),
		Sink:     f.Sink,
	})
	if e != nil {
		return nil, e
	}
	f.Runner.OnProgress(f.onProgress)
	return f, nil
}

// respondMesh4x4 responds on both ports of every crosspoint in a 4x4 mesh.
func respondMesh4x4(evt cmn.CounterEvent, w perfstat.Workload) string {
	if evt.Node.X < 4 && evt.Node.Y < 4 {
		return perfstat.TokenNotCounted
	}
	return ""
}

var fromYAML = testenv.FromYAML
