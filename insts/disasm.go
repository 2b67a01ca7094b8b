package insts

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// mnemonics maps each opcode to the shared CHIP-8 instruction definition,
// so the disassembly matches the spelling used by retroenv tooling.
var mnemonics = map[Op]*chip8.Instruction{
	OpCLS:    chip8.ClsInst,
	OpRET:    chip8.RetInst,
	OpJP:     chip8.JpInst,
	OpJPV0:   chip8.JpInst,
	OpCALL:   chip8.CallInst,
	OpSEImm:  chip8.SeInst,
	OpSEReg:  chip8.SeInst,
	OpSNEImm: chip8.SneInst,
	OpSNEReg: chip8.SneInst,
	OpLDImm:  chip8.LdInst,
	OpLDReg:  chip8.LdInst,
	OpLDI:    chip8.LdInst,
	OpLDVxDT: chip8.LdInst,
	OpLDVxK:  chip8.LdInst,
	OpLDDTVx: chip8.LdInst,
	OpLDSTVx: chip8.LdInst,
	OpLDF:    chip8.LdInst,
	OpLDB:    chip8.LdInst,
	OpLDIVx:  chip8.LdInst,
	OpLDVxI:  chip8.LdInst,
	OpADDImm: chip8.AddInst,
	OpADDReg: chip8.AddInst,
	OpADDI:   chip8.AddInst,
	OpOR:     chip8.OrInst,
	OpAND:    chip8.AndInst,
	OpXOR:    chip8.XorInst,
	OpSUB:    chip8.SubInst,
	OpSUBN:   chip8.SubnInst,
	OpSHR:    chip8.ShrInst,
	OpSHL:    chip8.ShlInst,
	OpRND:    chip8.RndInst,
	OpDRW:    chip8.DrwInst,
	OpSKP:    chip8.SkpInst,
	OpSKNP:   chip8.SknpInst,
}

// Mnemonic returns the lower case assembler name of the instruction.
func (i *Instruction) Mnemonic() string {
	if ins, ok := mnemonics[i.Op]; ok {
		return ins.Name
	}
	if i.Op == OpSYS {
		return "sys"
	}
	return "db"
}

// Operands returns the formatted operand list of the instruction.
func (i *Instruction) Operands() string {
	switch i.Op {
	case OpUnknown:
		return fmt.Sprintf("$%02X, $%02X", i.Word>>8, i.Word&0xFF)
	case OpCLS, OpRET:
		return ""
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("$%03X", i.NNN)
	case OpJPV0:
		return fmt.Sprintf("V0, $%03X", i.NNN)
	case OpLDI:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", i.X)
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)
	case OpLDVxDT:
		return fmt.Sprintf("V%X, DT", i.X)
	case OpLDVxK:
		return fmt.Sprintf("V%X, K", i.X)
	case OpLDDTVx:
		return fmt.Sprintf("DT, V%X", i.X)
	case OpLDSTVx:
		return fmt.Sprintf("ST, V%X", i.X)
	case OpADDI:
		return fmt.Sprintf("I, V%X", i.X)
	case OpLDF:
		return fmt.Sprintf("F, V%X", i.X)
	case OpLDB:
		return fmt.Sprintf("B, V%X", i.X)
	case OpLDIVx:
		return fmt.Sprintf("[I], V%X", i.X)
	case OpLDVxI:
		return fmt.Sprintf("V%X, [I]", i.X)
	}

	switch i.Format {
	case FormatRegImm:
		return fmt.Sprintf("V%X, $%02X", i.X, i.KK)
	case FormatRegReg:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	}
	return ""
}

// String returns the full disassembly of the instruction, e.g. "ld VA, $2F".
func (i *Instruction) String() string {
	operands := i.Operands()
	if operands == "" {
		return i.Mnemonic()
	}
	return i.Mnemonic() + " " + operands
}

// Disassemble decodes a program image loaded at base and returns one line
// per instruction word. A trailing odd byte is emitted as data.
func (d *Decoder) Disassemble(base uint16, program []byte) []string {
	lines := make([]string, 0, len(program)/2+1)
	var inst Instruction

	for offset := 0; offset+1 < len(program); offset += 2 {
		word := uint16(program[offset])<<8 | uint16(program[offset+1])
		d.DecodeInto(word, &inst)
		lines = append(lines, fmt.Sprintf("$%03X  %04X  %s", int(base)+offset, word, inst.String()))
	}

	if len(program)%2 == 1 {
		last := len(program) - 1
		lines = append(lines, fmt.Sprintf("$%03X  %02X    db $%02X", int(base)+last, program[last], program[last]))
	}

	return lines
}
