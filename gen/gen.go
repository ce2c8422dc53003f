// Package gen generates random, always balanced programs.
package gen

import (
	"math/rand"
	"strings"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/pkg/errors"

	"github.com/mrhapile/brainrot-fuzz/arch"
)

var log = btclog.Disabled

// UseLogger sets the package logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// Source is the random source a Generator draws from.
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Weights maps each opcode to its relative sampling weight.
type Weights map[byte]int

// DefaultWeights samples every opcode uniformly except IN, which is never
// emitted: the fuzzer feeds the program on the subject's stdin, so IN would
// only ever read end-of-file there.
var DefaultWeights = Weights{
	arch.INC:   1,
	arch.DEC:   1,
	arch.LEFT:  1,
	arch.RIGHT: 1,
	arch.OPEN:  1,
	arch.CLOSE: 1,
	arch.OUT:   1,
}

// Generator produces balanced programs.
type Generator struct {
	src   Source
	table []byte // Cumulative weight table: symbol per weight unit.
}

// New creates a generator drawing from src with the given weights.
// Returns an error if a weight is negative, names a non-opcode, or if no
// symbol other than CLOSE can be drawn.
func New(src Source, w Weights) (*Generator, error) {
	if src == nil {
		return nil, errors.New("gen: nil random source")
	}

	var table []byte
	var progress bool

	// Iterate in alphabet order so a given seed always yields the same table.
	for _, sym := range arch.Symbols {
		n := w[sym]
		if n < 0 {
			return nil, errors.Errorf("gen: negative weight %d for %q", n, sym)
		}
		for i := 0; i < n; i++ {
			table = append(table, sym)
		}
		if n > 0 && sym != arch.CLOSE {
			progress = true
		}
	}

	for sym := range w {
		if !arch.IsOpcode(sym) {
			return nil, errors.Errorf("gen: weight for non-opcode %q", sym)
		}
	}

	if !progress {
		return nil, errors.New("gen: weights must allow a symbol other than CLOSE")
	}

	return &Generator{src: src, table: table}, nil
}

// NewSeeded creates a generator with DefaultWeights and a math/rand
// source. A zero seed picks a time based seed.
func NewSeeded(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debugf("seed %d", seed)

	g, err := New(rand.New(rand.NewSource(seed)), DefaultWeights)
	if err != nil {
		panic(err) // DefaultWeights is valid.
	}
	return g
}

// Generate returns a balanced program of at least min symbols.
//
// Sampling continues while brackets are open or the program is shorter
// than min. A CLOSE drawn at depth zero is dropped while the program is
// still too short; once it is long enough, such a CLOSE ends generation
// and is itself discarded. The program therefore ends one sample before
// the terminating draw.
//
// When the program has reached max symbols, the open brackets are closed
// and the result returned, so the length never exceeds max plus the depth
// at that point. A max below min is raised to min.
func (g *Generator) Generate(min, max int) arch.Program {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}

	var sb strings.Builder
	sb.Grow(max)
	depth := 0

	for {
		if sb.Len() >= max {
			sb.WriteString(strings.Repeat(string(rune(arch.CLOSE)), depth))
			log.Tracef("force-closed %d brackets at length %d", depth, sb.Len())
			return arch.Program(sb.String())
		}

		sym := g.table[g.src.Intn(len(g.table))]

		switch sym {
		case arch.OPEN:
			depth++
		case arch.CLOSE:
			if depth == 0 {
				if sb.Len() >= min {
					return arch.Program(sb.String())
				}
				continue
			}
			depth--
		}

		sb.WriteByte(sym)
	}
}
