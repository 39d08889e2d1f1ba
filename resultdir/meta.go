package resultdir

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/shirou/gopsutil/host"
)

// FileMeta is the filename of run metadata.
const FileMeta = "meta.md"

const metaTimeFormat = "2006-01-02T150405MST"

// Meta describes a run.
type Meta struct {
	End         time.Time
	Hostname    string
	Kernel      string
	PerfVersion string
	Args        []string
	Version     string
}

// HostMeta fills Hostname and Kernel from host information.
func HostMeta() (m Meta) {
	info, e := host.Info()
	if e != nil {
		logger.Warn("cannot read host information")
		m.Hostname, _ = os.Hostname()
		return m
	}
	m.Hostname = info.Hostname
	m.Kernel = strings.TrimSpace(fmt.Sprintf("%s %s %s %s", info.OS, info.KernelVersion, info.KernelArch, info.Platform))
	return m
}

// WriteMeta saves run metadata.
// If m.End is zero, current time is used.
func (w *Writer) WriteMeta(m Meta) error {
	if m.End.IsZero() {
		m.End = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Measurement Start: `%s` (epoch: `%d`)\n", w.start.Format(metaTimeFormat), w.start.Unix())
	fmt.Fprintf(&b, "Measurement End  : `%s` (epoch: `%d`)\n", m.End.Format(metaTimeFormat), m.End.Unix())
	fmt.Fprintf(&b, "Host: `%s`\n", m.Hostname)
	fmt.Fprintf(&b, "Kernel: `%s`\n", m.Kernel)
	fmt.Fprintf(&b, "Perf Version: `%s`\n", m.PerfVersion)
	fmt.Fprintf(&b, "All Args: `%s`\n", shellquote.Join(m.Args...))
	if m.Version != "" {
		fmt.Fprintf(&b, "Version: `%s`\n", m.Version)
	}

	name, e := w.filename(FileMeta)
	if e != nil {
		return e
	}
	return os.WriteFile(name, []byte(b.String()), 0o644)
}
