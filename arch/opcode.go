// Package arch defines the tape language's instruction set along with
// the Program type and its bracket structure.
package arch

// Known opcodes. Each opcode is its own source symbol.
const (
	INC   = '+' // Increment the current cell.
	DEC   = '-' // Decrement the current cell.
	LEFT  = '<' // Move the pointer one cell left.
	RIGHT = '>' // Move the pointer one cell right.
	OPEN  = '[' // Jump past the matching CLOSE if the current cell is zero.
	CLOSE = ']' // Jump back to the matching OPEN if the current cell is non-zero.
	OUT   = '.' // Emit the current cell.
	IN    = ',' // Read a value into the current cell.
)

// TapeSize is the number of cells on the tape.
const TapeSize = 0x10000

// Symbols lists the alphabet in a fixed order.
var Symbols = [...]byte{INC, DEC, LEFT, RIGHT, OPEN, CLOSE, OUT, IN}

// IsOpcode returns true if c is part of the alphabet.
func IsOpcode(c byte) bool {
	switch c {
	case INC, DEC, LEFT, RIGHT, OPEN, CLOSE, OUT, IN:
		return true
	}
	return false
}

// Name returns a human-readable name for the given opcode.
// Returns false if c is not an opcode.
func Name(c byte) (string, bool) {
	switch c {
	case INC:
		return "INC", true
	case DEC:
		return "DEC", true
	case LEFT:
		return "LEFT", true
	case RIGHT:
		return "RIGHT", true
	case OPEN:
		return "OPEN", true
	case CLOSE:
		return "CLOSE", true
	case OUT:
		return "OUT", true
	case IN:
		return "IN", true
	}
	return "", false
}
