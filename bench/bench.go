// Package bench times repeated runs of an interpreter executable over one
// source file.
package bench

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/codahale/hdrhistogram"
	"github.com/pkg/errors"
)

var log = btclog.Disabled

// UseLogger sets the package logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// Histogram bounds in nanoseconds.
const (
	minRun = 1
	maxRun = int64(10 * time.Minute)
)

// newCommand builds the command for one run.
var newCommand = exec.CommandContext

// Options describes a benchmark.
type Options struct {
	Exec   string // Interpreter executable.
	Source string // Program file passed as the only argument.
	Input  string // Optional file fed to stdin on every run.
	Count  int    // Warm-up runs, then the same number of measured runs.
}

// Summary holds the measured run times in nanoseconds.
type Summary struct {
	Runs    []int64 `json:"runs_ns"`
	Average float64 `json:"avg_ns"`
	Min     int64   `json:"min_ns"`
	P50     int64   `json:"p50_ns"`
	P90     int64   `json:"p90_ns"`
	P99     int64   `json:"p99_ns"`
	Max     int64   `json:"max_ns"`
}

// Run performs opts.Count warm-up runs followed by opts.Count measured
// runs. Any run exiting non-zero aborts the benchmark.
func Run(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary

	if opts.Exec == "" || opts.Source == "" {
		return summary, errors.New("bench: executable and source are required")
	}
	if opts.Count <= 0 {
		return summary, errors.Errorf("bench: count must be positive, have %d", opts.Count)
	}

	var input []byte
	if opts.Input != "" {
		data, err := os.ReadFile(opts.Input)
		if err != nil {
			return summary, errors.Wrap(err, "read input")
		}
		input = data
	}

	log.Infof("warm up")
	for i := 0; i < opts.Count; i++ {
		if _, err := once(ctx, opts, input); err != nil {
			return summary, errors.Wrapf(err, "warm-up run %d", i+1)
		}
		log.Debugf("%d/%d", i+1, opts.Count)
	}

	h := hdrhistogram.New(minRun, maxRun, 3)
	summary.Runs = make([]int64, 0, opts.Count)

	var total int64
	for i := 0; i < opts.Count; i++ {
		elapsed, err := once(ctx, opts, input)
		if err != nil {
			return summary, errors.Wrapf(err, "run %d", i+1)
		}

		ns := elapsed.Nanoseconds()
		log.Infof("%d/%d: %dns", i+1, opts.Count, ns)
		summary.Runs = append(summary.Runs, ns)
		total += ns

		if ns < minRun {
			ns = minRun
		}
		if ns > maxRun {
			ns = maxRun
		}
		if err := h.RecordValue(ns); err != nil {
			log.Warnf("record run time: %v", err)
		}
	}

	summary.Average = float64(total) / float64(len(summary.Runs))
	summary.Min = h.Min()
	summary.P50 = h.ValueAtQuantile(50)
	summary.P90 = h.ValueAtQuantile(90)
	summary.P99 = h.ValueAtQuantile(99)
	summary.Max = h.Max()

	log.Infof("avg: %.0fns", summary.Average)
	return summary, nil
}

// once runs the executable a single time and returns its wall time.
func once(ctx context.Context, opts Options, input []byte) (time.Duration, error) {
	var stderr bytes.Buffer

	cmd := newCommand(ctx, opts.Exec, opts.Source)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return elapsed, errors.Errorf("not success: exit code %d: %s",
				exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return elapsed, errors.Wrap(err, "spawn")
	}
	return elapsed, nil
}
