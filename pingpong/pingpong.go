// Package pingpong implements a cache coherency ping-pong benchmark.
//
// Two threads pinned to different cores take turns flipping a shared flag.
// Each flip transfers the cache line between the cores, generating a predictable stream of
// data flits between their crosspoints in the mesh.
package pingpong

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/usnistgov/cmnprobe/core/logging"
	"github.com/usnistgov/cmnprobe/core/runningstat"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var logger = logging.New("pingpong")

// Unpinned indicates a thread should not be pinned to a core.
const Unpinned = -1

// Defaults.
const (
	DefaultRoundTrips = 50000
	DefaultSamples    = 5000
)

const (
	ping uint32 = 0
	pong uint32 = 1
)

// Config contains benchmark configuration.
type Config struct {
	// Cores are the logical cores of ping and pong threads.
	// Unpinned leaves a thread to the scheduler.
	Cores [2]int
	// RoundTrips is the number of round trips per sample.
	// Default is DefaultRoundTrips.
	RoundTrips int
	// Samples is the number of timed samples.
	// Default is DefaultSamples.
	Samples int
}

func (cfg *Config) applyDefaults() {
	if cfg.RoundTrips == 0 {
		cfg.RoundTrips = DefaultRoundTrips
	}
	if cfg.Samples == 0 {
		cfg.Samples = DefaultSamples
	}
}

func (cfg Config) validate() error {
	errs := []error{}
	if cfg.RoundTrips < 0 {
		errs = append(errs, errors.New("RoundTrips is negative"))
	}
	if cfg.Samples < 0 {
		errs = append(errs, errors.New("Samples is negative"))
	}
	for i, core := range cfg.Cores {
		if core < Unpinned {
			errs = append(errs, fmt.Errorf("Cores[%d] is invalid", i))
		}
	}
	return multierr.Combine(errs...)
}

// Result contains benchmark result.
type Result struct {
	// Elapsed is the duration of all samples, measured on the ping thread.
	Elapsed time.Duration `json:"elapsed"`
	// Transitions are the number of successful flag flips by ping and pong threads.
	Transitions [2]uint64 `json:"transitions"`
	// Samples is per-sample duration statistics in nanoseconds.
	Samples runningstat.Snapshot `json:"samples"`
}

type state struct {
	cfg     Config
	flag    atomic.Uint32
	ready   sync.WaitGroup
	aborted atomic.Bool
	result  Result
}

// rendezvous pins the calling goroutine and waits for the peer.
// Returns false if either side failed to pin.
func (s *state) rendezvous(core int) (ok bool, e error) {
	runtime.LockOSThread()
	if e = pin(core); e != nil {
		s.aborted.Store(true)
	}
	s.ready.Done()
	s.ready.Wait()
	return !s.aborted.Load(), e
}

func (s *state) runPong() (e error) {
	defer runtime.UnlockOSThread()
	ok, e := s.rendezvous(s.cfg.Cores[1])
	if !ok {
		return e
	}

	n := s.cfg.RoundTrips * s.cfg.Samples
	for i := 0; i < n; i++ {
		for !s.flag.CompareAndSwap(ping, pong) {
		}
		s.result.Transitions[1]++
	}
	return nil
}

func (s *state) runPing() (e error) {
	defer runtime.UnlockOSThread()
	ok, e := s.rendezvous(s.cfg.Cores[0])
	if !ok {
		return e
	}

	var stat runningstat.IntStat
	t0 := time.Now()
	for j := 0; j < s.cfg.Samples; j++ {
		t1 := time.Now()
		for i := 0; i < s.cfg.RoundTrips; i++ {
			for !s.flag.CompareAndSwap(pong, ping) {
			}
			s.result.Transitions[0]++
		}
		stat.Push(uint64(time.Since(t1)))
	}
	s.result.Elapsed = time.Since(t0)
	s.result.Samples = stat.Read()
	return nil
}

// Run executes the benchmark.
// It blocks until both threads complete.
func Run(cfg Config) (res Result, e error) {
	cfg.applyDefaults()
	if e := cfg.validate(); e != nil {
		return res, e
	}

	s := &state{cfg: cfg}
	s.flag.Store(ping)
	s.ready.Add(2)

	logger.Debug("ping-pong starting",
		zap.Ints("cores", cfg.Cores[:]),
		zap.Int("round-trips", cfg.RoundTrips),
		zap.Int("samples", cfg.Samples),
	)

	var wg sync.WaitGroup
	var errs [2]error
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[1] = s.runPong()
	}()
	go func() {
		defer wg.Done()
		errs[0] = s.runPing()
	}()
	wg.Wait()

	if e = multierr.Append(errs[0], errs[1]); e != nil {
		return Result{}, e
	}
	logger.Debug("ping-pong finished", zap.Duration("elapsed", s.result.Elapsed))
	return s.result, nil
}

func pin(core int) error {
	if core == Unpinned {
		return nil
	}
	var set unix.CPUSet
	set.Set(core)
	if e := unix.SchedSetaffinity(0, &set); e != nil {
		return fmt.Errorf("pin to core %d: %w", core, e)
	}
	return nil
}
