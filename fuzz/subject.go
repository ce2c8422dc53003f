package fuzz

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mrhapile/brainrot-fuzz/arch"
)

// Stage names the part of an iteration that failed on the host side.
type Stage string

const (
	StageSpawn   Stage = "spawn"
	StageWait    Stage = "wait"
	StagePersist Stage = "persist"
)

// SubjectError represents a host-side failure while driving the subject.
// These abort a run; they are never a verdict.
type SubjectError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *SubjectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *SubjectError) Unwrap() error { return e.Cause }

// ExitStatus is what a finished subject process left behind.
// Code is -1 when the process was killed by a signal.
type ExitStatus struct {
	Code   int
	Stdout []byte
	Stderr []byte

	// Set when the stream went past the capture limit.
	StdoutTruncated bool
	StderrTruncated bool
}

// Subject starts the system under test for one program.
// This abstraction enables fault injection via mocking in tests.
type Subject interface {
	Start(program arch.Program) (Process, error)
}

// Process is a running subject.
type Process interface {
	// Wait blocks until the process exited and its output streams are
	// fully drained.
	Wait() (ExitStatus, error)
	// Kill forcibly terminates the process. Wait must still be called.
	Kill() error
}

// DefaultWaitDelay bounds how long Wait keeps draining output pipes after
// the process itself has exited, e.g. when a grandchild holds them open.
const DefaultWaitDelay = time.Second

// DefaultOutputLimit is how many bytes of each output stream are kept.
const DefaultOutputLimit = 1 << 20

// ProcessSubject runs an executable with the program on its stdin.
// On Unix the process leads its own process group, and everything it
// started is killed along with it.
type ProcessSubject struct {
	Path        string
	Args        []string
	WaitDelay   time.Duration
	OutputLimit int // Per stream; output past it is dropped.
}

// NewProcessSubject creates a subject for the given executable.
func NewProcessSubject(path string, args ...string) *ProcessSubject {
	return &ProcessSubject{
		Path:        path,
		Args:        args,
		WaitDelay:   DefaultWaitDelay,
		OutputLimit: DefaultOutputLimit,
	}
}

// Start implements Subject.Start.
func (s *ProcessSubject) Start(program arch.Program) (Process, error) {
	p := &execProcess{
		cmd:    newCommand(s.Path, s.Args...),
		stdout: limitedBuffer{limit: s.OutputLimit},
		stderr: limitedBuffer{limit: s.OutputLimit},
	}
	p.cmd.Stdin = strings.NewReader(string(program))
	p.cmd.Stdout = &p.stdout
	p.cmd.Stderr = &p.stderr
	p.cmd.WaitDelay = s.WaitDelay
	setProcessGroup(p.cmd)

	if err := p.cmd.Start(); err != nil {
		return nil, &SubjectError{Stage: StageSpawn, Message: "start " + s.Path, Cause: err}
	}
	return p, nil
}

// newCommand is the process constructor; tests may patch it.
var newCommand = exec.Command

// execProcess wraps a started *exec.Cmd.
type execProcess struct {
	cmd    *exec.Cmd
	stdout limitedBuffer
	stderr limitedBuffer
}

// Wait implements Process.Wait. exec.Cmd.Wait only returns once the
// stdout and stderr copies finished, which is what drains the pipes.
// Descendants still alive once the subject exited are killed.
func (p *execProcess) Wait() (ExitStatus, error) {
	err := p.cmd.Wait()

	if kerr := reapGroup(p.cmd.Process.Pid); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
		log.Warnf("kill leftovers of %s: %v", p.cmd.Path, kerr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.Is(err, exec.ErrWaitDelay):
	case errors.As(err, &exitErr):
	default:
		return ExitStatus{}, &SubjectError{Stage: StageWait, Message: "wait " + p.cmd.Path, Cause: err}
	}

	return ExitStatus{
		Code:            p.cmd.ProcessState.ExitCode(),
		Stdout:          p.stdout.buf.Bytes(),
		Stderr:          p.stderr.buf.Bytes(),
		StdoutTruncated: p.stdout.truncated,
		StderrTruncated: p.stderr.truncated,
	}, nil
}

// Kill implements Process.Kill. It kills the subject and, where process
// groups exist, everything it started.
func (p *execProcess) Kill() error {
	err := killGroup(p.cmd.Process.Pid)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// limitedBuffer keeps the first limit bytes written to it and silently
// drops the rest. A limit of zero or less keeps everything.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(data []byte) (int, error) {
	if b.limit <= 0 {
		return b.buf.Write(data)
	}

	room := b.limit - b.buf.Len()
	if room < len(data) {
		b.truncated = true
		if room > 0 {
			b.buf.Write(data[:room])
		}
		return len(data), nil
	}
	return b.buf.Write(data)
}
