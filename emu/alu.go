// Package emu provides functional CHIP-8 emulation.
package emu

// ALU implements CHIP-8 register arithmetic and logic operations.
//
// Flag-producing operations write VF in the order the instruction set
// defines, so when Vx is VF the later write wins.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// LDImm performs Vx = kk
func (a *ALU) LDImm(x, kk uint8) {
	a.regFile.WriteReg(x, kk)
}

// ADDImm performs Vx = Vx + kk (mod 256). VF is not affected.
func (a *ALU) ADDImm(x, kk uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)+kk)
}

// LD performs Vx = Vy
func (a *ALU) LD(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(y))
}

// OR performs Vx = Vx | Vy
func (a *ALU) OR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)|a.regFile.ReadReg(y))
}

// AND performs Vx = Vx & Vy
func (a *ALU) AND(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)&a.regFile.ReadReg(y))
}

// XOR performs Vx = Vx ^ Vy
func (a *ALU) XOR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)^a.regFile.ReadReg(y))
}

// ADD performs Vx = Vx + Vy (mod 256), then VF = carry.
func (a *ALU) ADD(x, y uint8) {
	sum := uint16(a.regFile.ReadReg(x)) + uint16(a.regFile.ReadReg(y))
	a.regFile.WriteReg(x, uint8(sum))
	a.regFile.SetFlag(sum > 0xFF)
}

// SUB performs VF = Vx > Vy, then Vx = Vx - Vy (mod 256).
func (a *ALU) SUB(x, y uint8) {
	vx := a.regFile.ReadReg(x)
	vy := a.regFile.ReadReg(y)
	a.regFile.SetFlag(vx > vy)
	a.regFile.WriteReg(x, vx-vy)
}

// SUBN performs VF = Vy > Vx, then Vx = Vy - Vx (mod 256).
func (a *ALU) SUBN(x, y uint8) {
	vx := a.regFile.ReadReg(x)
	vy := a.regFile.ReadReg(y)
	a.regFile.SetFlag(vy > vx)
	a.regFile.WriteReg(x, vy-vx)
}

// SHR performs VF = Vx & 1, then Vx = Vx >> 1.
func (a *ALU) SHR(x uint8) {
	vx := a.regFile.ReadReg(x)
	a.regFile.SetFlag(vx&0x01 != 0)
	a.regFile.WriteReg(x, vx>>1)
}

// SHL performs VF = bit 7 of Vx, then Vx = Vx << 1 (mod 256).
func (a *ALU) SHL(x uint8) {
	vx := a.regFile.ReadReg(x)
	a.regFile.SetFlag(vx&0x80 != 0)
	a.regFile.WriteReg(x, vx<<1)
}

// RND performs Vx = random & kk
func (a *ALU) RND(x, kk uint8, src RandomSource) {
	a.regFile.WriteReg(x, src.Byte()&kk)
}
