// Package emu provides functional CHIP-8 emulation.
package emu

// NumRegisters is the number of general-purpose V registers.
const NumRegisters = 16

// FlagRegister is the index of VF, the carry/borrow/collision flag.
const FlagRegister = 0xF

// RegFile represents the CHIP-8 register file.
// It contains 16 general-purpose 8-bit registers (V0-VF),
// the index register (I) and the program counter (PC).
type RegFile struct {
	// V holds general-purpose registers V0-VF.
	// VF is overwritten by arithmetic, shift and draw instructions.
	V [NumRegisters]uint8

	// I is the index register used as a base address for memory operations.
	// It is 16 bits wide and may temporarily point past the end of memory.
	I uint16

	// PC is the program counter.
	PC uint16
}

// ReadReg reads a V register. Only the low nibble of reg is used.
func (r *RegFile) ReadReg(reg uint8) uint8 {
	return r.V[reg&0xF]
}

// WriteReg writes a V register. Only the low nibble of reg is used.
func (r *RegFile) WriteReg(reg uint8, value uint8) {
	r.V[reg&0xF] = value
}

// SetFlag writes VF as 1 when set is true and 0 otherwise.
func (r *RegFile) SetFlag(set bool) {
	if set {
		r.V[FlagRegister] = 1
		return
	}
	r.V[FlagRegister] = 0
}

// Flag returns the value of VF.
func (r *RegFile) Flag() uint8 {
	return r.V[FlagRegister]
}
