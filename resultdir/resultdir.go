// Package resultdir saves measurement results in a per-run directory.
//
// A run directory is named after the host and the start time, and contains:
//   - one semicolon-separated CSV file per probe batch
//   - text files such as the event catalog listing
//   - JSON documents such as the topology map
//   - meta.md describing the run
package resultdir

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/host"
	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/core/logging"
	"go.uber.org/zap"
)

var logger = logging.New("resultdir")

// CSVHeader is the header row of event CSV files.
var CSVHeader = []string{"cmn_idx", "event_type", "event_id", "node_id", "counts"}

// Config contains Writer configuration.
type Config struct {
	// BasePath is the output directory shared by all runs.
	BasePath string
	// Prefix is the subdirectory of the command, such as "determine_topology".
	Prefix string
	// Hostname overrides the hostname in the run directory name.
	Hostname string
	// Start overrides the start time.
	Start time.Time
}

func (cfg *Config) applyDefaults() {
	if cfg.Hostname == "" {
		if info, e := host.Info(); e == nil {
			cfg.Hostname = info.Hostname
		} else if cfg.Hostname, e = os.Hostname(); e != nil {
			cfg.Hostname = "localhost"
		}
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now()
	}
}

// Writer writes files into a run directory.
type Writer struct {
	dir   string
	start time.Time
}

// Create creates a run directory.
// If a directory of the same name exists, such as two runs started within the same minute,
// a numeric suffix is appended.
func Create(cfg Config) (w *Writer, e error) {
	if cfg.BasePath == "" {
		return nil, errors.New("BasePath is missing")
	}
	cfg.applyDefaults()

	name := fmt.Sprintf("%s_%s", cfg.Hostname, cfg.Start.Format("2006-01-02T1504"))
	parent := filepath.Join(cfg.BasePath, cfg.Prefix)
	dir := filepath.Join(parent, name)
	for i := 1; isDir(dir); i++ {
		dir = filepath.Join(parent, fmt.Sprintf("%s-%d", name, i))
	}

	if e = os.MkdirAll(dir, 0o755); e != nil {
		return nil, e
	}
	logger.Info("writing results", zap.String("dir", dir))
	return &Writer{
		dir:   dir,
		start: cfg.Start,
	}, nil
}

func isDir(dir string) bool {
	st, e := os.Stat(dir)
	return e == nil && st.IsDir()
}

// Dir returns the run directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Start returns the run start time.
func (w *Writer) Start() time.Time {
	return w.start
}

// filename converts a slash-separated relative name to a path in the run directory, and creates its parent.
func (w *Writer) filename(rel string) (string, error) {
	rel = path.Clean("/" + rel)[1:]
	if rel == "" {
		return "", fs.ErrInvalid
	}
	filename := filepath.Join(w.dir, filepath.FromSlash(rel))
	return filename, os.MkdirAll(filepath.Dir(filename), 0o755)
}

func (w *Writer) create(rel string) (*os.File, error) {
	filename, e := w.filename(rel)
	if e != nil {
		return nil, e
	}
	return os.Create(filename)
}

// WriteEvents saves counter readings as CSV.
// batch may contain a subdirectory, such as "cores/cores_0_2"; ".csv" is appended.
func (w *Writer) WriteEvents(batch string, events []cmn.CounterEvent) (e error) {
	f, e := w.create(batch + ".csv")
	if e != nil {
		return e
	}
	defer func() {
		if e2 := f.Close(); e == nil {
			e = e2
		}
	}()

	cw := csv.NewWriter(f)
	cw.Comma = ';'
	if e = cw.Write(CSVHeader); e != nil {
		return e
	}
	for _, evt := range events {
		if e = cw.Write(csvRecord(evt)); e != nil {
			return e
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(evt cmn.CounterEvent) []string {
	counts := strconv.FormatUint(evt.Count.Value, 10)
	if !evt.Count.Supported() {
		counts = "-1"
	}
	return []string{
		strconv.Itoa(int(evt.CMNIndex)),
		fmt.Sprintf("%#x", evt.EventType),
		fmt.Sprintf("%#x", evt.EventID),
		fmt.Sprintf("%#x", evt.Node.ID()),
		counts,
	}
}

// WriteLines saves a text file, one line per element.
func (w *Writer) WriteLines(filename string, lines []string) error {
	name, e := w.filename(filename)
	if e != nil {
		return e
	}
	return os.WriteFile(name, []byte(strings.Join(lines, "\n")), 0o644)
}

// WriteJSON saves a JSON document.
func (w *Writer) WriteJSON(filename string, value any) error {
	j, e := json.MarshalIndent(value, "", "  ")
	if e != nil {
		return e
	}
	name, e := w.filename(filename)
	if e != nil {
		return e
	}
	return os.WriteFile(name, append(j, '\n'), 0o644)
}
