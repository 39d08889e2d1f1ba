package perfstat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// DefaultPerfPath is the default perf executable.
const DefaultPerfPath = "perf"

// FieldSeparator is the perf stat CSV field separator.
const FieldSeparator = ";"

// Workload is a command monitored by perf stat.
type Workload struct {
	Path string
	Args []string
}

// Argv returns command line of the workload.
func (w Workload) Argv() []string {
	return append([]string{w.Path}, w.Args...)
}

func (w Workload) String() string {
	return shellquote.Join(w.Argv()...)
}

// IdleWorkload returns a workload that sleeps for the specified duration.
func IdleWorkload(d time.Duration) Workload {
	return Workload{
		Path: "sleep",
		Args: []string{strconv.FormatFloat(d.Seconds(), 'f', -1, 64)},
	}
}

// ExecError indicates perf could not be started or terminated abnormally.
type ExecError struct {
	Workload Workload
	Err      error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("perf stat %s: %v", e.Workload, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Executor runs a batch of probes against a workload.
type Executor interface {
	// Run executes the workload with all probes attached, waits for it to terminate,
	// and returns the counter result text.
	// Error is *ExecError.
	Run(ctx context.Context, probes []Probe, workload Workload) (string, error)
}

// PerfExecutor is an Executor that invokes perf stat.
type PerfExecutor struct {
	// PerfPath is the perf executable.
	// Default is DefaultPerfPath, found via $PATH.
	PerfPath string
}

var _ Executor = PerfExecutor{}

func (x PerfExecutor) perfPath() string {
	if x.PerfPath == "" {
		return DefaultPerfPath
	}
	return x.PerfPath
}

// Args constructs perf command line arguments, excluding the perf executable itself.
func (PerfExecutor) Args(probes []Probe, workload Workload) (args []string) {
	args = append(args, "stat", "--field-separator", FieldSeparator)
	for _, probe := range probes {
		args = append(args, "-e", string(probe))
	}
	return append(args, workload.Argv()...)
}

// Run implements Executor interface.
//
// perf writes counter results to stderr, which is captured and returned.
// If perf exits with a non-zero status, the workload is assumed to have failed,
// and the captured text is still returned for best-effort decoding.
// If perf cannot be started or is terminated by a signal, this returns *ExecError.
func (x PerfExecutor) Run(ctx context.Context, probes []Probe, workload Workload) (string, error) {
	cmd := exec.CommandContext(ctx, x.perfPath(), x.Args(probes, workload)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("perf stat",
		zap.String("perf", cmd.Path),
		zap.Int("probes", len(probes)),
		zap.Stringer("workload", workload),
	)
	t0 := time.Now()
	e := cmd.Run()
	logger.Debug("perf stat done",
		zap.Duration("elapsed", time.Since(t0)),
		zap.Int("output-len", stderr.Len()),
	)

	var exitErr *exec.ExitError
	switch {
	case e == nil:
	case errors.As(e, &exitErr) && exitErr.ExitCode() >= 0:
		logger.Warn("workload exited with non-zero status, decoding available output",
			zap.Stringer("workload", workload),
			zap.Int("status", exitErr.ExitCode()),
		)
	default:
		return "", &ExecError{workload, e}
	}
	return stderr.String(), nil
}

// Version returns perf version string.
func (x PerfExecutor) Version(ctx context.Context) (string, error) {
	output, e := exec.CommandContext(ctx, x.perfPath(), "--version").Output()
	if e != nil {
		return "", &ExecError{Workload{Path: x.perfPath(), Args: []string{"--version"}}, e}
	}
	return strings.TrimSpace(string(output)), nil
}
