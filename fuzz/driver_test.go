package fuzz

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrhapile/brainrot-fuzz/arch"
	"github.com/mrhapile/brainrot-fuzz/gen"
)

// =============================================================================
// DRIVER TEST SUITE
// =============================================================================
//
// Deterministic tests for the differential driver. The subject and the
// artifact store are replaced with hand-written mocks and the generator
// replays fixed programs, so every iteration's input is known in advance.
// =============================================================================

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockSubject is a configurable mock for fault injection.
type MockSubject struct {
	StartFunc func(p arch.Program) (Process, error)
	Programs  []arch.Program
}

func (m *MockSubject) Start(p arch.Program) (Process, error) {
	m.Programs = append(m.Programs, p)
	if m.StartFunc != nil {
		return m.StartFunc(p)
	}
	return &MockProcess{}, nil
}

// MockProcess is a configurable mock process. Without a WaitFunc it exits
// immediately with Status.
type MockProcess struct {
	Status   ExitStatus
	WaitFunc func() (ExitStatus, error)
	KillFunc func() error

	mu     sync.Mutex
	killed bool
	waited bool
}

func (m *MockProcess) Wait() (ExitStatus, error) {
	defer func() {
		m.mu.Lock()
		m.waited = true
		m.mu.Unlock()
	}()
	if m.WaitFunc != nil {
		return m.WaitFunc()
	}
	return m.Status, nil
}

func (m *MockProcess) Kill() error {
	m.mu.Lock()
	m.killed = true
	m.mu.Unlock()
	if m.KillFunc != nil {
		return m.KillFunc()
	}
	return nil
}

func (m *MockProcess) Killed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.killed
}

func (m *MockProcess) Waited() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waited
}

// exiting returns a subject whose processes exit with the given status.
func exiting(status ExitStatus) *MockSubject {
	return &MockSubject{
		StartFunc: func(arch.Program) (Process, error) {
			return &MockProcess{Status: status}, nil
		},
	}
}

// hanging returns a process that only exits once it is killed.
func hanging() *MockProcess {
	kill := make(chan struct{})
	var once sync.Once
	return &MockProcess{
		WaitFunc: func() (ExitStatus, error) {
			<-kill
			return ExitStatus{Code: -1}, nil
		},
		KillFunc: func() error {
			once.Do(func() { close(kill) })
			return nil
		},
	}
}

// MockStore records persisted artifacts.
type MockStore struct {
	PersistFunc  func(p arch.Program, description string) (string, error)
	Programs     []arch.Program
	Descriptions []string
}

func (m *MockStore) Persist(p arch.Program, description string) (string, error) {
	m.Programs = append(m.Programs, p)
	m.Descriptions = append(m.Descriptions, description)
	if m.PersistFunc != nil {
		return m.PersistFunc(p, description)
	}
	return "artifact-" + string(rune('0'+len(m.Programs))), nil
}

// replay is a gen.Source drawing the symbols of a fixed string in order,
// wrapping around at the end.
type replay struct {
	syms string
	pos  int
}

func (r *replay) Intn(n int) int {
	sym := r.syms[r.pos%len(r.syms)]
	r.pos++
	return bytes.IndexByte(arch.Symbols[:], sym)
}

// fixedGenerator yields the given programs in turn. All programs must be
// balanced and of equal length, matching the MinLength/MaxLength of
// testConfig.
func fixedGenerator(t *testing.T, programs ...arch.Program) *gen.Generator {
	var sb strings.Builder
	for _, p := range programs {
		require.Equal(t, programs[0].Len(), p.Len(), "programs must share a length")
		sb.WriteString(string(p))
	}

	w := gen.Weights{}
	for _, sym := range arch.Symbols {
		w[sym] = 1
	}

	g, err := gen.New(&replay{syms: sb.String()}, w)
	require.NoError(t, err)
	return g
}

func testConfig(length, iterations int) Config {
	cfg := DefaultConfig()
	cfg.Subject = "mock"
	cfg.MinLength = length
	cfg.MaxLength = length
	cfg.MaxIterations = iterations
	cfg.StopOnAnomaly = false
	cfg.Deadline = time.Second
	return cfg
}

// -----------------------------------------------------------------------------
// TEST: Oracle Filter
// -----------------------------------------------------------------------------
//
// WHY THIS MATTERS:
// Spawning the subject is the expensive part of an iteration. Programs the
// reference interpreter cannot finish within its step budget must be
// dropped before a process is ever started.
// -----------------------------------------------------------------------------

func TestStep_FilteredNeverSpawns(t *testing.T) {
	subject := &MockSubject{
		StartFunc: func(arch.Program) (Process, error) {
			t.Fatal("subject must not be started for a filtered program")
			return nil, nil
		},
	}

	var progress bytes.Buffer
	cfg := testConfig(3, 1)
	cfg.Progress = &progress

	d := NewDriver(cfg, fixedGenerator(t, "+[]"), subject, &MockStore{})
	res, err := d.Step(1)

	require.NoError(t, err)
	assert.Equal(t, VerdictFiltered, res.Verdict)
	assert.Equal(t, arch.Program("+[]"), res.Program)
	assert.Equal(t, "Timeout", res.Oracle)
	assert.Equal(t, "_", progress.String())
	assert.Empty(t, subject.Programs)
}

func TestStep_OracleSurvivorsAreSpawned(t *testing.T) {
	testCases := []struct {
		name    string
		program arch.Program
	}{
		{name: "success", program: "+++"},
		{name: "out_of_range", program: "<<+"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			subject := exiting(ExitStatus{Code: 0})
			d := NewDriver(testConfig(3, 1), fixedGenerator(t, tc.program), subject, &MockStore{})

			res, err := d.Step(1)
			require.NoError(t, err)
			assert.Equal(t, VerdictBenign, res.Verdict)
			assert.Equal(t, []arch.Program{tc.program}, subject.Programs, "subject must see the exact program")
		})
	}
}

// -----------------------------------------------------------------------------
// TEST: Exit Code Classification
// -----------------------------------------------------------------------------
//
// WHY THIS MATTERS:
// The exit code is the only signal the subject gives us. A misclassified
// exit either hides a crash or buries the user in false positives.
// -----------------------------------------------------------------------------

func TestStep_ExitClassification(t *testing.T) {
	testCases := []struct {
		name     string
		code     int
		stderr   string
		verdict  Verdict
		persists bool
	}{
		{name: "clean_exit", code: 0, verdict: VerdictBenign},
		{name: "panic", code: 101, stderr: "panic: index out of bounds", verdict: VerdictCrash, persists: true},
		{name: "reported_out_of_range", code: 1, stderr: "out of range", verdict: VerdictUnknownExit, persists: true},
		{name: "reported_timeout", code: 2, verdict: VerdictUnknownExit, persists: true},
		{name: "abort", code: 134, stderr: "Aborted", verdict: VerdictUnknownExit, persists: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &MockStore{}
			subject := exiting(ExitStatus{Code: tc.code, Stderr: []byte(tc.stderr)})
			d := NewDriver(testConfig(3, 1), fixedGenerator(t, "+++"), subject, store)

			res, err := d.Step(1)
			require.NoError(t, err)
			assert.Equal(t, tc.verdict, res.Verdict)

			if tc.persists {
				require.Len(t, store.Programs, 1)
				assert.Equal(t, arch.Program("+++"), store.Programs[0])
				assert.NotEmpty(t, res.Artifact)
				assert.Equal(t, tc.code, res.ExitCode)
				assert.Equal(t, tc.stderr, res.Stderr)
			} else {
				assert.Empty(t, store.Programs)
				assert.Empty(t, res.Artifact)
			}
		})
	}
}

func TestStep_CrashArtifactDescription(t *testing.T) {
	store := &MockStore{}
	subject := exiting(ExitStatus{Code: 101, Stderr: []byte("panic: index out of bounds")})
	d := NewDriver(testConfig(4, 1), fixedGenerator(t, "+[-]"), subject, store)

	res, err := d.Step(7)
	require.NoError(t, err)
	require.Equal(t, VerdictCrash, res.Verdict)
	require.Len(t, store.Descriptions, 1)

	desc := store.Descriptions[0]
	assert.Contains(t, desc, "verdict: crash")
	assert.Contains(t, desc, "iteration: 7")
	assert.Contains(t, desc, "exit code: 101")
	assert.Contains(t, desc, "panic: index out of bounds")
	assert.Equal(t, arch.Program("+[-]"), store.Programs[0])
}

func TestStep_CustomCrashCode(t *testing.T) {
	cfg := testConfig(3, 1)
	cfg.CrashCode = 70

	d := NewDriver(cfg, fixedGenerator(t, "+++"), exiting(ExitStatus{Code: 70}), &MockStore{})
	res, err := d.Step(1)
	require.NoError(t, err)
	assert.Equal(t, VerdictCrash, res.Verdict)

	d = NewDriver(cfg, fixedGenerator(t, "+++"), exiting(ExitStatus{Code: 101}), &MockStore{})
	res, err = d.Step(1)
	require.NoError(t, err)
	assert.Equal(t, VerdictUnknownExit, res.Verdict)
}

func TestStep_OutOfRangeAgreement(t *testing.T) {
	cfg := testConfig(3, 1)
	cfg.OutOfRangeCode = 1

	// Oracle and subject agree the pointer left the tape.
	d := NewDriver(cfg, fixedGenerator(t, "<<+"), exiting(ExitStatus{Code: 1}), &MockStore{})
	res, err := d.Step(1)
	require.NoError(t, err)
	assert.Equal(t, VerdictBenign, res.Verdict)

	// The subject claims out of range but the oracle finished fine.
	d = NewDriver(cfg, fixedGenerator(t, "+++"), exiting(ExitStatus{Code: 1}), &MockStore{})
	res, err = d.Step(1)
	require.NoError(t, err)
	assert.Equal(t, VerdictUnknownExit, res.Verdict)
}

// -----------------------------------------------------------------------------
// TEST: Output Comparison
// -----------------------------------------------------------------------------

func TestStep_CompareOutput(t *testing.T) {
	testCases := []struct {
		name    string
		program arch.Program
		stdout  []byte
		verdict Verdict
	}{
		{name: "agree", program: "+.+.", stdout: []byte{1, 2}, verdict: VerdictBenign},
		{name: "agree_silent", program: "+++-", stdout: nil, verdict: VerdictBenign},
		{name: "differ", program: "+.+.", stdout: []byte{1, 3}, verdict: VerdictMismatch},
		{name: "extra_output", program: "+++-", stdout: []byte("x"), verdict: VerdictMismatch},
		{name: "out_of_range_not_compared", program: "<.<.", stdout: []byte("zz"), verdict: VerdictBenign},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(4, 1)
			cfg.CompareOutput = true
			store := &MockStore{}

			d := NewDriver(cfg, fixedGenerator(t, tc.program), exiting(ExitStatus{Code: 0, Stdout: tc.stdout}), store)
			res, err := d.Step(1)
			require.NoError(t, err)
			assert.Equal(t, tc.verdict, res.Verdict)

			if tc.verdict == VerdictMismatch {
				require.Len(t, store.Descriptions, 1)
				assert.Contains(t, store.Descriptions[0], "--- oracle")
				assert.Contains(t, store.Descriptions[0], "+++ subject")
			}
		})
	}
}

func TestStep_CompareTruncatedOutput(t *testing.T) {
	testCases := []struct {
		name    string
		status  ExitStatus
		verdict Verdict
	}{
		{name: "prefix_agrees", status: ExitStatus{Stdout: []byte{1}, StdoutTruncated: true}, verdict: VerdictBenign},
		{name: "prefix_differs", status: ExitStatus{Stdout: []byte{2}, StdoutTruncated: true}, verdict: VerdictMismatch},
		{name: "longer_than_oracle", status: ExitStatus{Stdout: []byte{1, 2}, StdoutTruncated: true}, verdict: VerdictMismatch},
		{name: "only_stderr_truncated", status: ExitStatus{Stdout: []byte{1}, StderrTruncated: true}, verdict: VerdictMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(4, 1)
			cfg.CompareOutput = true

			d := NewDriver(cfg, fixedGenerator(t, "+.+."), exiting(tc.status), &MockStore{})
			res, err := d.Step(1)
			require.NoError(t, err)
			assert.Equal(t, tc.verdict, res.Verdict)
		})
	}
}

func TestStep_TruncatedStderrNoted(t *testing.T) {
	store := &MockStore{}
	status := ExitStatus{Code: 101, Stderr: []byte("panicked at"), StderrTruncated: true}

	d := NewDriver(testConfig(3, 1), fixedGenerator(t, "+++"), exiting(status), store)
	_, err := d.Step(1)
	require.NoError(t, err)

	require.Len(t, store.Descriptions, 1)
	assert.Contains(t, store.Descriptions[0], "(stderr truncated)")
}

func TestStep_OutputIgnoredByDefault(t *testing.T) {
	d := NewDriver(testConfig(4, 1), fixedGenerator(t, "+.+."), exiting(ExitStatus{Stdout: []byte("nope")}), &MockStore{})
	res, err := d.Step(1)
	require.NoError(t, err)
	assert.Equal(t, VerdictBenign, res.Verdict)
}

// -----------------------------------------------------------------------------
// TEST: Deadline Race
// -----------------------------------------------------------------------------
//
// WHY THIS MATTERS:
// A subject stuck in an infinite loop would stall the campaign forever.
// The deadline must win the race, the process must be killed, and the
// driver must still reap it so no zombie outlives the iteration.
// -----------------------------------------------------------------------------

func TestStep_WallTimeoutKillsAndReaps(t *testing.T) {
	proc := hanging()
	subject := &MockSubject{
		StartFunc: func(arch.Program) (Process, error) { return proc, nil },
	}
	store := &MockStore{}

	cfg := testConfig(3, 1)
	cfg.Deadline = 20 * time.Millisecond

	d := NewDriver(cfg, fixedGenerator(t, "+++"), subject, store)

	start := time.Now()
	res, err := d.Step(1)
	require.NoError(t, err)

	assert.Equal(t, VerdictWallTimeout, res.Verdict)
	assert.True(t, proc.Killed(), "deadline must kill the subject")
	assert.True(t, proc.Waited(), "killed subject must be reaped")
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.GreaterOrEqual(t, res.Elapsed, cfg.Deadline)
	assert.Empty(t, store.Programs, "timeouts are not persisted by default")
}

func TestStep_WallTimeoutPersistedWhenEnabled(t *testing.T) {
	subject := &MockSubject{
		StartFunc: func(arch.Program) (Process, error) { return hanging(), nil },
	}
	store := &MockStore{}

	cfg := testConfig(3, 1)
	cfg.Deadline = 10 * time.Millisecond
	cfg.PersistTimeouts = true

	d := NewDriver(cfg, fixedGenerator(t, "+++"), subject, store)
	res, err := d.Step(1)
	require.NoError(t, err)

	assert.Equal(t, VerdictWallTimeout, res.Verdict)
	assert.NotEmpty(t, res.Artifact)
	require.Len(t, store.Descriptions, 1)
	assert.Contains(t, store.Descriptions[0], "verdict: wall_timeout")
	assert.Contains(t, store.Descriptions[0], "killed after")
}

func TestStep_FastExitIsNotKilled(t *testing.T) {
	proc := &MockProcess{Status: ExitStatus{Code: 0}}
	subject := &MockSubject{
		StartFunc: func(arch.Program) (Process, error) { return proc, nil },
	}

	d := NewDriver(testConfig(3, 1), fixedGenerator(t, "+++"), subject, &MockStore{})
	res, err := d.Step(1)
	require.NoError(t, err)

	assert.Equal(t, VerdictBenign, res.Verdict)
	assert.False(t, proc.Killed())
	assert.True(t, proc.Waited())
}

func TestStep_KillErrorStillReaps(t *testing.T) {
	proc := hanging()
	kill := proc.KillFunc
	proc.KillFunc = func() error {
		kill()
		return errors.New("operation not permitted")
	}
	subject := &MockSubject{
		StartFunc: func(arch.Program) (Process, error) { return proc, nil },
	}

	cfg := testConfig(3, 1)
	cfg.Deadline = 10 * time.Millisecond

	d := NewDriver(cfg, fixedGenerator(t, "+++"), subject, &MockStore{})
	res, err := d.Step(1)
	require.NoError(t, err)
	assert.Equal(t, VerdictWallTimeout, res.Verdict)
	assert.True(t, proc.Waited())
}

// -----------------------------------------------------------------------------
// TEST: Host-Side Failures
// -----------------------------------------------------------------------------
//
// WHY THIS MATTERS:
// Failing to start the subject, to wait for it, or to write a crash repro
// are problems with the campaign itself. They must stop the run loudly and
// be classified to the stage that failed.
// -----------------------------------------------------------------------------

func TestRun_HostFailures(t *testing.T) {
	testCases := []struct {
		name    string
		subject *MockSubject
		store   *MockStore
		stage   Stage
		message string
	}{
		{
			name: "spawn_error",
			subject: &MockSubject{
				StartFunc: func(arch.Program) (Process, error) {
					return nil, errors.New("exec: no such file or directory")
				},
			},
			store:   &MockStore{},
			stage:   StageSpawn,
			message: "no such file or directory",
		},
		{
			name: "spawn_subject_error_kept",
			subject: &MockSubject{
				StartFunc: func(arch.Program) (Process, error) {
					return nil, &SubjectError{Stage: StageWait, Message: "preclassified"}
				},
			},
			store:   &MockStore{},
			stage:   StageWait,
			message: "preclassified",
		},
		{
			name: "wait_error",
			subject: &MockSubject{
				StartFunc: func(arch.Program) (Process, error) {
					return &MockProcess{WaitFunc: func() (ExitStatus, error) {
						return ExitStatus{}, errors.New("wait: interrupted")
					}}, nil
				},
			},
			store:   &MockStore{},
			stage:   StageWait,
			message: "interrupted",
		},
		{
			name:    "persist_error",
			subject: exiting(ExitStatus{Code: 101}),
			store: &MockStore{PersistFunc: func(arch.Program, string) (string, error) {
				return "", errors.New("disk full")
			}},
			stage:   StagePersist,
			message: "disk full",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDriver(testConfig(3, 10), fixedGenerator(t, "+++"), tc.subject, tc.store)
			report, err := d.Run(context.Background())

			require.Error(t, err)
			var subjectErr *SubjectError
			require.ErrorAs(t, err, &subjectErr)
			assert.Equal(t, tc.stage, subjectErr.Stage)
			assert.Contains(t, err.Error(), tc.message)
			assert.Contains(t, err.Error(), "iteration 1")
			assert.Equal(t, 1, report.Iterations, "run must stop at the failing iteration")
			assert.Equal(t, 1, report.HostErrors)
			assert.Equal(t, 0, report.Spawned)
			assert.NotContains(t, report.VerdictCounts, Verdict(""))
			for _, n := range report.VerdictCounts {
				assert.Zero(t, n, "a failed iteration has no verdict")
			}
		})
	}
}

func TestRun_PanicRecovered(t *testing.T) {
	testCases := []struct {
		name    string
		subject *MockSubject
		stage   Stage
	}{
		{
			name: "panic_in_start",
			subject: &MockSubject{
				StartFunc: func(arch.Program) (Process, error) {
					panic("spawn table corrupted")
				},
			},
			stage: StageSpawn,
		},
		{
			name: "panic_in_wait",
			subject: &MockSubject{
				StartFunc: func(arch.Program) (Process, error) {
					return &MockProcess{WaitFunc: func() (ExitStatus, error) {
						panic(errors.New("allocation failure"))
					}}, nil
				},
			},
			stage: StageWait,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDriver(testConfig(3, 1), fixedGenerator(t, "+++"), tc.subject, &MockStore{})

			var err error
			require.NotPanics(t, func() {
				_, err = d.Run(context.Background())
			})

			var subjectErr *SubjectError
			require.ErrorAs(t, err, &subjectErr)
			assert.Equal(t, tc.stage, subjectErr.Stage)
			assert.Contains(t, subjectErr.Message, "panic recovered")
		})
	}
}

// -----------------------------------------------------------------------------
// TEST: Termination
// -----------------------------------------------------------------------------
//
// WHY THIS MATTERS:
// The loop has no natural end. Tests and callers rely on the iteration cap,
// stop-on-anomaly, and context cancellation to bound it.
// -----------------------------------------------------------------------------

func TestRun_MaxIterations(t *testing.T) {
	var progress bytes.Buffer
	cfg := testConfig(3, 6)
	cfg.Progress = &progress

	subject := exiting(ExitStatus{Code: 0})
	d := NewDriver(cfg, fixedGenerator(t, "+++", "+[]"), subject, &MockStore{})

	report, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, report.Iterations)
	assert.Equal(t, 3, report.Filtered)
	assert.Equal(t, 3, report.Spawned)
	assert.Equal(t, 0, report.Anomalies)
	assert.Equal(t, 3, report.VerdictCounts[VerdictBenign])
	assert.Equal(t, 3, report.VerdictCounts[VerdictFiltered])
	assert.Equal(t, 0, report.VerdictCounts[VerdictCrash])
	assert.Empty(t, report.Results)
	assert.Equal(t, "._._._", progress.String())
	assert.Equal(t, int64(3), report.Latency.Count)
	assert.Len(t, subject.Programs, 3)
}

func TestRun_StopOnAnomaly(t *testing.T) {
	calls := 0
	subject := &MockSubject{
		StartFunc: func(arch.Program) (Process, error) {
			calls++
			if calls == 2 {
				return &MockProcess{Status: ExitStatus{Code: 101, Stderr: []byte("boom")}}, nil
			}
			return &MockProcess{}, nil
		},
	}
	store := &MockStore{}

	var progress bytes.Buffer
	cfg := testConfig(3, 100)
	cfg.StopOnAnomaly = true
	cfg.Progress = &progress

	d := NewDriver(cfg, fixedGenerator(t, "+++", "++-"), subject, store)
	report, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Iterations)
	assert.Equal(t, 1, report.Anomalies)
	require.Len(t, report.Results, 1)
	assert.Equal(t, VerdictCrash, report.Results[0].Verdict)
	assert.Equal(t, arch.Program("++-"), report.Results[0].Program)
	assert.Equal(t, "boom", report.Results[0].Stderr)
	assert.Equal(t, 2, report.Results[0].Iteration)
	assert.Equal(t, ".!", progress.String())
}

func TestRun_ContinuesPastAnomalies(t *testing.T) {
	store := &MockStore{}
	d := NewDriver(testConfig(3, 4), fixedGenerator(t, "+++"), exiting(ExitStatus{Code: 3}), store)

	report, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Iterations)
	assert.Equal(t, 4, report.Anomalies)
	assert.Equal(t, 4, report.VerdictCounts[VerdictUnknownExit])
	assert.Len(t, store.Programs, 4)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	subject := exiting(ExitStatus{})
	d := NewDriver(testConfig(3, 0), fixedGenerator(t, "+++"), subject, &MockStore{})

	report, err := d.Run(ctx)
	require.NoError(t, err, "external cancellation is a normal stop")
	assert.Equal(t, 0, report.Iterations)
	assert.Empty(t, subject.Programs)
}

func TestRun_CancelBetweenIterations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subject := &MockSubject{}
	subject.StartFunc = func(arch.Program) (Process, error) {
		if len(subject.Programs) == 3 {
			cancel()
		}
		return &MockProcess{}, nil
	}

	d := NewDriver(testConfig(3, 0), fixedGenerator(t, "+++"), subject, &MockStore{})
	report, err := d.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Iterations, "the running iteration completes before stopping")
}

// -----------------------------------------------------------------------------
// BENCHMARK: Driver Overhead
// -----------------------------------------------------------------------------

func BenchmarkStepMockSubject(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Subject = "mock"
	d := NewDriver(cfg, gen.NewSeeded(1), exiting(ExitStatus{}), &MockStore{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Step(i); err != nil {
			b.Fatal(err)
		}
	}
}
