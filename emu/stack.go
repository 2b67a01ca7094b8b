package emu

import "fmt"

// StackDepth is the number of return addresses the call stack can hold.
const StackDepth = 16

// Stack is the fixed-capacity CHIP-8 call stack.
type Stack struct {
	entries [StackDepth]uint16

	// sp is the number of entries in use; 0 means empty.
	sp int
}

// Push saves a return address. A full stack is left unchanged and
// ErrStackOverflow is returned.
func (s *Stack) Push(addr uint16) error {
	if s.sp == StackDepth {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, StackDepth)
	}
	s.entries[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes and returns the most recent return address.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	addr := s.entries[s.sp]
	s.entries[s.sp] = 0
	return addr, nil
}

// Depth returns the number of entries on the stack.
func (s *Stack) Depth() int {
	return s.sp
}

// Entries returns a copy of the live entries, oldest first.
func (s *Stack) Entries() []uint16 {
	out := make([]uint16, s.sp)
	copy(out, s.entries[:s.sp])
	return out
}

// Reset empties the stack.
func (s *Stack) Reset() {
	*s = Stack{}
}
