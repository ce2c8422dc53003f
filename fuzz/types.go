package fuzz

import (
	"time"

	"github.com/codahale/hdrhistogram"

	"github.com/mrhapile/brainrot-fuzz/arch"
)

// Verdict represents the outcome of one fuzzing iteration.
type Verdict string

const (
	VerdictFiltered    Verdict = "filtered"     // Oracle timed out; subject never ran.
	VerdictBenign      Verdict = "benign"       // Subject exited 0.
	VerdictWallTimeout Verdict = "wall_timeout" // Subject overran the deadline and was killed.
	VerdictCrash       Verdict = "crash"        // Subject exited with the crash code.
	VerdictUnknownExit Verdict = "unknown_exit" // Subject exited with any other code.
	VerdictMismatch    Verdict = "mismatch"     // Subject output differs from the oracle's.
)

// Verdicts lists every verdict in report order.
var Verdicts = []Verdict{
	VerdictFiltered,
	VerdictBenign,
	VerdictWallTimeout,
	VerdictCrash,
	VerdictUnknownExit,
	VerdictMismatch,
}

// Mark returns the progress character printed for v.
func (v Verdict) Mark() byte {
	switch v {
	case VerdictFiltered:
		return '_'
	case VerdictBenign:
		return '.'
	case VerdictWallTimeout:
		return 'T'
	case VerdictCrash:
		return '!'
	case VerdictUnknownExit:
		return '?'
	case VerdictMismatch:
		return 'M'
	}
	return ' '
}

// Result holds the structured result for a single iteration.
type Result struct {
	Iteration int           `json:"iteration"`
	Program   arch.Program  `json:"program"`
	Verdict   Verdict       `json:"verdict"`
	Oracle    string        `json:"oracle"`
	ExitCode  int           `json:"exit_code,omitempty"`
	Stderr    string        `json:"stderr,omitempty"`
	Artifact  string        `json:"artifact,omitempty"`
	Elapsed   time.Duration `json:"-"` // Subject wall time; zero when filtered.
}

// Latency summarizes subject wall times in microseconds.
type Latency struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	P50   int64   `json:"p50"`
	P99   int64   `json:"p99"`
	Max   int64   `json:"max"`
}

// Report holds the complete report for a fuzzing run.
type Report struct {
	Seed          int64           `json:"seed,omitempty"`
	Iterations    int             `json:"iterations"`
	Filtered      int             `json:"filtered"`
	Spawned       int             `json:"spawned"`
	Anomalies     int             `json:"anomalies"`
	HostErrors    int             `json:"host_errors"`
	VerdictCounts map[Verdict]int `json:"verdict_counts"`
	Results       []Result        `json:"results"` // Persisted iterations only.
	Latency       Latency         `json:"subject_latency_us"`
}

func newReport() Report {
	report := Report{
		Results:       make([]Result, 0),
		VerdictCounts: make(map[Verdict]int),
	}
	for _, v := range Verdicts {
		report.VerdictCounts[v] = 0
	}
	return report
}

// add accounts for one finished iteration.
func (r *Report) add(res Result) {
	r.Iterations++
	r.VerdictCounts[res.Verdict]++

	if res.Verdict == VerdictFiltered {
		r.Filtered++
	} else {
		r.Spawned++
	}

	if res.Artifact != "" {
		r.Anomalies++
		r.Results = append(r.Results, res)
	}
}

// fail accounts for an iteration aborted by a host-side error. It is
// counted as an iteration but never as a verdict or a spawn.
func (r *Report) fail() {
	r.Iterations++
	r.HostErrors++
}

// summarize fills in the latency section from h.
func (r *Report) summarize(h *hdrhistogram.Histogram) {
	if h.TotalCount() == 0 {
		return
	}
	r.Latency = Latency{
		Count: h.TotalCount(),
		Mean:  h.Mean(),
		P50:   h.ValueAtQuantile(50),
		P99:   h.ValueAtQuantile(99),
		Max:   h.Max(),
	}
}
