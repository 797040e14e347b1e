package sequencer

import (
	"fmt"
	"math/bits"
	"strings"
)

// NumSteps is the number of sixteenth positions in one cycle
const NumSteps = 16

// Steps is a 16-step bitmask. Step 0 is the most significant bit, so
// patterns read left to right the way they are written in the table.
type Steps uint16

// Downbeats marks the first sixteenth of every quarter note
const Downbeats Steps = 0b1000100010001000

// StepsOf builds a mask from a list of 0/1 values (handy for tests and tables)
func StepsOf(vals ...uint8) Steps {
	var s Steps
	for i, v := range vals {
		if i >= NumSteps {
			break
		}
		if v != 0 {
			s = s.Set(i)
		}
	}
	return s
}

func stepBit(step int) Steps {
	return Steps(0x8000) >> uint(step&(NumSteps-1))
}

// Has reports whether the given step is set
func (s Steps) Has(step int) bool {
	if step < 0 || step >= NumSteps {
		return false
	}
	return s&stepBit(step) != 0
}

// Set returns a copy with the given step set
func (s Steps) Set(step int) Steps {
	if step < 0 || step >= NumSteps {
		return s
	}
	return s | stepBit(step)
}

// Count returns how many steps are set
func (s Steps) Count() int {
	return bits.OnesCount16(uint16(s))
}

// Within reports whether every set step is also set in mask
func (s Steps) Within(mask Steps) bool {
	return s&^mask == 0
}

// String renders the mask as 16 characters, x for set and . for clear
func (s Steps) String() string {
	var b strings.Builder
	b.Grow(NumSteps)
	for i := 0; i < NumSteps; i++ {
		if s.Has(i) {
			b.WriteByte('x')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// ParseSteps reads the String form back. Spaces and | are ignored so
// patterns can be grouped by beat.
func ParseSteps(str string) (Steps, error) {
	var s Steps
	step := 0
	for _, r := range str {
		switch r {
		case ' ', '|', '\t':
			continue
		case 'x', 'X', '1':
			s = s.Set(step)
		case '.', '-', '0':
		default:
			return 0, fmt.Errorf("steps %q: unexpected %q", str, r)
		}
		step++
		if step > NumSteps {
			return 0, fmt.Errorf("steps %q: more than %d steps", str, NumSteps)
		}
	}
	if step != NumSteps {
		return 0, fmt.Errorf("steps %q: %d steps, want %d", str, step, NumSteps)
	}
	return s, nil
}

// Cursor is the single active bit marking the current step
type Cursor Steps

// StartCursor points at step 0
const StartCursor = Cursor(0x8000)

// Index returns the step the cursor points at (0-15)
func (c Cursor) Index() int {
	return bits.LeadingZeros16(uint16(c))
}

// Advance rotates the cursor right by one step, wrapping 15 -> 0
func (c Cursor) Advance() Cursor {
	return Cursor(bits.RotateLeft16(uint16(c), -1))
}

// Is reports whether the cursor is at the given step
func (c Cursor) Is(step int) bool {
	return Steps(c).Has(step) && c.valid()
}

// In reports whether the current step is part of mask
func (c Cursor) In(mask Steps) bool {
	return Steps(c)&mask != 0
}

// Odd reports whether the cursor sits on an off-eighth sixteenth
func (c Cursor) Odd() bool {
	return c.Index()%2 == 1
}

func (c Cursor) valid() bool {
	return bits.OnesCount16(uint16(c)) == 1
}
