package emu

import (
	"errors"
	"fmt"
)

// Errors reported by the emulator. They are returned wrapped; use
// errors.Is to test for them.
var (
	ErrStackOverflow      = errors.New("call stack overflow")
	ErrStackUnderflow     = errors.New("return with empty call stack")
	ErrProgramTooLarge    = errors.New("program too large")
	ErrAddressOutOfRange  = errors.New("address out of range")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrMaxInstructions    = errors.New("max instructions reached")
)

// ExecError describes an instruction that failed to execute. The program
// counter has been restored to PC, so the machine state is the state from
// before the faulting instruction.
type ExecError struct {
	PC   uint16
	Word uint16
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("instruction %04X at PC=0x%03X: %v", e.Word, e.PC, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
