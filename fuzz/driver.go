// Package fuzz implements the differential fuzzing driver: generated
// programs are filtered through the reference interpreter and survivors are
// raced against a deadline in the subject process. Anomalous exits are
// persisted as self-describing artifacts.
package fuzz

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/mrhapile/brainrot-fuzz/arch"
	"github.com/mrhapile/brainrot-fuzz/gen"
	"github.com/mrhapile/brainrot-fuzz/interp"
)

// Latency histogram bounds in microseconds.
const (
	minLatency = 1
	maxLatency = int64(time.Hour / time.Microsecond)
)

// Driver runs the fuzzing loop. It is not safe for concurrent use.
type Driver struct {
	cfg      Config
	gen      *gen.Generator
	subject  Subject
	store    Store
	progress io.Writer
	latency  *hdrhistogram.Histogram
}

// NewDriver creates a driver. cfg is expected to be valid.
func NewDriver(cfg Config, g *gen.Generator, subject Subject, store Store) *Driver {
	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}

	return &Driver{
		cfg:      cfg,
		gen:      g,
		subject:  subject,
		store:    store,
		progress: progress,
		latency:  hdrhistogram.New(minLatency, maxLatency, 3),
	}
}

// Run iterates until MaxIterations is reached, an artifact is persisted
// with StopOnAnomaly set, or ctx is done. The context is only checked
// between iterations. Host-side failures abort the run; the report
// collected so far is returned along with the error.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	report := newReport()

	for i := 1; d.cfg.MaxIterations == 0 || i <= d.cfg.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			log.Infof("stopping after %d iterations: %v", report.Iterations, err)
			break
		}

		res, err := d.Step(i)
		if err != nil {
			report.fail()
			report.summarize(d.latency)
			return report, errors.Wrapf(err, "iteration %d", i)
		}
		report.add(res)

		if res.Artifact != "" && d.cfg.StopOnAnomaly {
			log.Infof("stopping on %s after %d iterations", res.Verdict, i)
			break
		}
	}

	report.summarize(d.latency)
	return report, nil
}

// Step performs a single iteration: generate, filter, run, classify
// and persist.
func (d *Driver) Step(iteration int) (Result, error) {
	res := Result{
		Iteration: iteration,
		Program:   d.gen.Generate(d.cfg.MinLength, d.cfg.MaxLength),
	}

	var want []byte
	var out interp.OutputFunc
	if d.cfg.CompareOutput {
		out = interp.Collect(&want)
	}

	oracle := interp.Execute(res.Program, d.cfg.StepBudget, out, nil)
	res.Oracle = oracle.String()

	if oracle.Kind == interp.Timeout {
		res.Verdict = VerdictFiltered
		d.mark(res.Verdict)
		return res, nil
	}

	status, timedOut, err := d.run(res.Program)
	if err != nil {
		return res, err
	}

	res.Elapsed = status.elapsed
	res.Verdict = d.classify(oracle, status.ExitStatus, timedOut, want)
	if res.Verdict != VerdictBenign && res.Verdict != VerdictWallTimeout {
		res.ExitCode = status.Code
		res.Stderr = string(status.Stderr)
	}

	log.Debugf("iteration %d: %s (%s, subject %v)", iteration, res.Verdict, res.Oracle, res.Elapsed)

	if d.persistable(res.Verdict) {
		id, err := d.store.Persist(res.Program, describe(res, status.ExitStatus, want))
		if err != nil {
			return res, &SubjectError{Stage: StagePersist, Message: "persist " + string(res.Verdict), Cause: err}
		}
		res.Artifact = id
	}

	d.mark(res.Verdict)
	return res, nil
}

// timedStatus is an ExitStatus plus the wall time the subject took.
type timedStatus struct {
	ExitStatus
	elapsed time.Duration
}

// waitResult carries the outcome of Process.Wait across the race.
type waitResult struct {
	status ExitStatus
	err    error
}

// run starts the subject and races its exit against the deadline.
// It never returns before the process has been reaped.
func (d *Driver) run(p arch.Program) (status timedStatus, timedOut bool, err error) {
	stage := StageSpawn

	// Ensure a misbehaving Subject implementation never takes the driver down.
	defer func() {
		if r := recover(); r != nil {
			err = &SubjectError{Stage: stage, Message: fmt.Sprintf("panic recovered: %v", r)}
		}
	}()

	proc, err := d.subject.Start(p)
	if err != nil {
		return status, false, asSubjectError(StageSpawn, err)
	}

	stage = StageWait
	start := time.Now()

	done := make(chan waitResult, 1)
	go func() {
		var res waitResult
		defer func() {
			if r := recover(); r != nil {
				res.err = &SubjectError{Stage: StageWait, Message: fmt.Sprintf("panic recovered: %v", r)}
			}
			done <- res
		}()
		res.status, res.err = proc.Wait()
	}()

	timer := time.NewTimer(d.cfg.Deadline)
	defer timer.Stop()

	var res waitResult
	select {
	case res = <-done:
	case <-timer.C:
		timedOut = true
		if err := proc.Kill(); err != nil {
			log.Warnf("kill subject: %v", err)
		}
		// Reap the process and drain its pipes before moving on.
		res = <-done
		if res.err != nil {
			log.Warnf("wait after kill: %v", res.err)
			res.err = nil
		}
	}

	status.elapsed = time.Since(start)
	d.record(status.elapsed)

	if res.err != nil {
		return status, false, asSubjectError(StageWait, res.err)
	}

	status.ExitStatus = res.status
	return status, timedOut, nil
}

// classify maps a finished subject run to a verdict.
func (d *Driver) classify(oracle interp.Result, status ExitStatus, timedOut bool, want []byte) Verdict {
	switch {
	case timedOut:
		return VerdictWallTimeout
	case status.Code == 0:
		if d.cfg.CompareOutput && oracle.Kind == interp.Success && !sameOutput(want, status) {
			return VerdictMismatch
		}
		return VerdictBenign
	case status.Code == d.cfg.CrashCode:
		return VerdictCrash
	case d.cfg.OutOfRangeCode != 0 && status.Code == d.cfg.OutOfRangeCode && oracle.Kind == interp.OutOfRange:
		return VerdictBenign
	default:
		return VerdictUnknownExit
	}
}

// sameOutput reports whether the subject's stdout matches want. A
// truncated capture only matches a longer want sharing its prefix.
func sameOutput(want []byte, status ExitStatus) bool {
	if status.StdoutTruncated {
		return len(status.Stdout) < len(want) && bytes.HasPrefix(want, status.Stdout)
	}
	return bytes.Equal(want, status.Stdout)
}

// persistable returns true if v must be written to the store.
func (d *Driver) persistable(v Verdict) bool {
	switch v {
	case VerdictCrash, VerdictUnknownExit, VerdictMismatch:
		return true
	case VerdictWallTimeout:
		return d.cfg.PersistTimeouts
	}
	return false
}

// record adds a subject wall time to the latency histogram.
func (d *Driver) record(elapsed time.Duration) {
	us := elapsed.Microseconds()
	if us < minLatency {
		us = minLatency
	}
	if us > maxLatency {
		us = maxLatency
	}
	if err := d.latency.RecordValue(us); err != nil {
		log.Warnf("record latency: %v", err)
	}
}

// mark writes the progress character for v.
func (d *Driver) mark(v Verdict) {
	d.progress.Write([]byte{v.Mark()})
}

// asSubjectError classifies err to stage unless it already carries one.
func asSubjectError(stage Stage, err error) error {
	var subjectErr *SubjectError
	if errors.As(err, &subjectErr) {
		return err
	}
	return &SubjectError{Stage: stage, Message: "subject failed", Cause: err}
}

// describe renders the artifact description for res.
func describe(res Result, status ExitStatus, want []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "verdict: %s\n", res.Verdict)
	fmt.Fprintf(&sb, "iteration: %d\n", res.Iteration)
	fmt.Fprintf(&sb, "oracle: %s\n", res.Oracle)

	switch res.Verdict {
	case VerdictWallTimeout:
		fmt.Fprintf(&sb, "killed after: %v\n", res.Elapsed)
	case VerdictMismatch:
		sb.WriteString("output diff:\n")
		sb.WriteString(outputDiff(want, status.Stdout))
	default:
		fmt.Fprintf(&sb, "exit code: %d\n", status.Code)
	}

	if len(status.Stderr) > 0 {
		sb.WriteString("stderr:\n")
		sb.Write(status.Stderr)
		if status.StderrTruncated {
			sb.WriteString("\n(stderr truncated)\n")
		}
	}
	return sb.String()
}

// outputDiff returns a unified diff between the hex dumps of the oracle's
// and the subject's output.
func outputDiff(want, have []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(hex.Dump(want)),
		B:        difflib.SplitLines(hex.Dump(have)),
		FromFile: "oracle",
		ToFile:   "subject",
		Context:  2,
	})
	if err != nil {
		return fmt.Sprintf("oracle %x\nsubject %x\n", want, have)
	}
	return diff
}
