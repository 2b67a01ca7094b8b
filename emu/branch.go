// Package emu provides functional CHIP-8 emulation.
package emu

// InstructionSize is the size of a CHIP-8 instruction in bytes.
const InstructionSize = 2

// BranchUnit implements CHIP-8 flow control: jumps, subroutine calls and
// conditional skips. PC has already been advanced past the current
// instruction when these run.
type BranchUnit struct {
	regFile *RegFile
	stack   *Stack
}

// NewBranchUnit creates a new BranchUnit connected to the given register
// file and call stack.
func NewBranchUnit(regFile *RegFile, stack *Stack) *BranchUnit {
	return &BranchUnit{regFile: regFile, stack: stack}
}

// JP performs an unconditional jump to nnn.
func (b *BranchUnit) JP(nnn uint16) {
	b.regFile.PC = nnn
}

// JPV0 jumps to nnn + V0.
func (b *BranchUnit) JPV0(nnn uint16) {
	b.regFile.PC = nnn + uint16(b.regFile.ReadReg(0))
}

// CALL pushes the return address (the already advanced PC) and jumps to nnn.
// On overflow PC is left unchanged.
func (b *BranchUnit) CALL(nnn uint16) error {
	if err := b.stack.Push(b.regFile.PC); err != nil {
		return err
	}
	b.regFile.PC = nnn
	return nil
}

// RET pops the return address into PC.
func (b *BranchUnit) RET() error {
	addr, err := b.stack.Pop()
	if err != nil {
		return err
	}
	b.regFile.PC = addr
	return nil
}

// SkipIf skips the next instruction when cond holds.
func (b *BranchUnit) SkipIf(cond bool) {
	if cond {
		b.regFile.PC += InstructionSize
	}
}
