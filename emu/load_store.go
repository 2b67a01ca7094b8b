// Package emu provides functional CHIP-8 emulation.
package emu

// LoadStoreUnit implements the CHIP-8 operations that access memory through
// the index register. Every access is range-checked before anything is
// written, so a failing instruction has no side effects.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// LDI performs I = nnn
func (lsu *LoadStoreUnit) LDI(nnn uint16) {
	lsu.regFile.I = nnn
}

// ADDI performs I = I + Vx. The result is not range-checked here; accesses
// through I are.
func (lsu *LoadStoreUnit) ADDI(x uint8) {
	lsu.regFile.I += uint16(lsu.regFile.ReadReg(x))
}

// LDF points I at the font glyph for the digit in Vx: I = Vx * 5
func (lsu *LoadStoreUnit) LDF(x uint8) {
	lsu.regFile.I = GlyphAddress(lsu.regFile.ReadReg(x))
}

// LDB stores the decimal digits of Vx at mem[I], mem[I+1], mem[I+2]
// (hundreds, tens, ones).
func (lsu *LoadStoreUnit) LDB(x uint8) error {
	dst, err := lsu.memory.Slice(lsu.regFile.I, 3)
	if err != nil {
		return err
	}
	v := lsu.regFile.ReadReg(x)
	dst[0] = v / 100
	dst[1] = (v / 10) % 10
	dst[2] = v % 10
	return nil
}

// STM stores V0..Vx inclusive at mem[I..I+x]. I is not modified.
func (lsu *LoadStoreUnit) STM(x uint8) error {
	n := int(x&0xF) + 1
	dst, err := lsu.memory.Slice(lsu.regFile.I, n)
	if err != nil {
		return err
	}
	copy(dst, lsu.regFile.V[:n])
	return nil
}

// LDM loads V0..Vx inclusive from mem[I..I+x]. I is not modified.
func (lsu *LoadStoreUnit) LDM(x uint8) error {
	n := int(x&0xF) + 1
	src, err := lsu.memory.Slice(lsu.regFile.I, n)
	if err != nil {
		return err
	}
	copy(lsu.regFile.V[:n], src)
	return nil
}

// Sprite returns the n sprite rows starting at I.
func (lsu *LoadStoreUnit) Sprite(n uint8) ([]byte, error) {
	return lsu.memory.Slice(lsu.regFile.I, int(n))
}
