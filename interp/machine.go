package interp

import "github.com/mrhapile/brainrot-fuzz/arch"

// Tape is the interpreter's memory bank.
type Tape [arch.TapeSize]byte

// machine holds the state of a single execution.
type machine struct {
	tape Tape
	prog arch.Program
	jt   arch.JumpTable
	out  OutputFunc
	in   InputFunc
	pc   int
	ptr  int
}

// step dispatches the instruction at pc and advances pc.
// The caller guarantees pc and ptr are in range.
func (m *machine) step() {
	cell := &m.tape[m.ptr]

	switch m.prog[m.pc] {
	case arch.INC:
		*cell++
	case arch.DEC:
		*cell--
	case arch.LEFT:
		m.ptr--
	case arch.RIGHT:
		m.ptr++
	case arch.OPEN:
		if *cell == 0 {
			m.pc = m.jt[m.pc]
		}
	case arch.CLOSE:
		if *cell != 0 {
			m.pc = m.jt[m.pc]
		}
	case arch.OUT:
		if m.out != nil {
			m.out(*cell)
		}
	case arch.IN:
		if m.in != nil {
			*cell = m.in()
		} else {
			*cell = 0
		}
	}

	m.pc++
}
