// Package interp implements the reference interpreter. It is used as the
// oracle that decides whether a generated program is worth handing to the
// subject, and by the standalone execution tool.
package interp

import (
	"fmt"
	"time"

	"github.com/mrhapile/brainrot-fuzz/arch"
)

// Unbounded disables the step budget.
const Unbounded int64 = -1

// OutputFunc receives the current cell value for every OUT instruction.
type OutputFunc func(byte)

// InputFunc supplies the value stored by every IN instruction.
type InputFunc func() byte

// Kind identifies how an execution halted.
type Kind int

// Known result kinds.
const (
	Timeout Kind = iota
	OutOfRange
	Success
)

func (k Kind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case OutOfRange:
		return "outofrange"
	case Success:
		return "success"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Result is the outcome of one execution. Pointer is only set for
// OutOfRange; Cycles and Elapsed are only meaningful for Success.
type Result struct {
	Kind    Kind
	Pointer int
	Cycles  int64
	Elapsed time.Duration
}

func (r Result) String() string {
	switch r.Kind {
	case Timeout:
		return "Timeout"
	case OutOfRange:
		return fmt.Sprintf("Out of range to %d", r.Pointer)
	default:
		return fmt.Sprintf("Success in %dns, %d cycles", r.Elapsed.Nanoseconds(), r.Cycles)
	}
}

// Execute runs p on a fresh tape for at most budget steps.
// A negative budget (see Unbounded) lets the program run until it halts.
// out and in may be nil: output is then discarded and input reads as 0.
//
// p must be balanced. An unbalanced program is a caller bug and makes
// Execute panic with an *arch.SyntaxError; use arch.Validate on
// untrusted input.
func Execute(p arch.Program, budget int64, out OutputFunc, in InputFunc) Result {
	jt, err := arch.BuildJumpTable(p)
	if err != nil {
		panic(err)
	}

	m := machine{
		prog: p,
		jt:   jt,
		out:  out,
		in:   in,
	}

	start := time.Now()
	for cycles := int64(0); budget < 0 || cycles < budget; cycles++ {
		if m.pc >= len(p) {
			return Result{Kind: Success, Cycles: cycles, Elapsed: time.Since(start)}
		}
		if m.ptr < 0 || m.ptr >= arch.TapeSize {
			return Result{Kind: OutOfRange, Pointer: m.ptr}
		}
		m.step()
	}

	return Result{Kind: Timeout}
}

// Collect returns an OutputFunc that appends every emitted value to *dst.
func Collect(dst *[]byte) OutputFunc {
	return func(v byte) {
		*dst = append(*dst, v)
	}
}
