package arch

import "fmt"

// Program is a sequence of opcodes. Generated programs are always
// balanced; programs read from disk should go through Validate first.
type Program string

// Len returns the number of symbols in p.
func (p Program) Len() int { return len(p) }

// SyntaxError describes an unmatched bracket.
type SyntaxError struct {
	Pos int  // Offset of the offending bracket.
	Sym byte // The offending bracket.
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d: unmatched %q", e.Pos, e.Sym)
}

// JumpTable maps each bracket's offset to the offset of its partner.
// It is an involution: jt[jt[i]] == i for every mapped i.
type JumpTable map[int]int

// BuildJumpTable matches brackets in a single pass using a position stack.
// Returns a *SyntaxError for the first unmatched bracket.
func BuildJumpTable(p Program) (JumpTable, error) {
	jt := make(JumpTable)
	var stack []int

	for i := 0; i < len(p); i++ {
		switch p[i] {
		case OPEN:
			stack = append(stack, i)
		case CLOSE:
			if len(stack) == 0 {
				return nil, &SyntaxError{Pos: i, Sym: CLOSE}
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jt[start] = i
			jt[i] = start
		}
	}

	if len(stack) > 0 {
		return nil, &SyntaxError{Pos: stack[len(stack)-1], Sym: OPEN}
	}

	return jt, nil
}

// Validate returns an error if p has unmatched brackets.
func Validate(p Program) error {
	_, err := BuildJumpTable(p)
	return err
}

// Depth returns the bracket depth after the last symbol of p and the
// smallest depth seen on any prefix. A balanced program yields (0, 0).
func Depth(p Program) (final, lowest int) {
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case OPEN:
			final++
		case CLOSE:
			final--
			if final < lowest {
				lowest = final
			}
		}
	}
	return final, lowest
}
