// Package insts provides CHIP-8 instruction definitions and decoding.
package insts

// Op represents a CHIP-8 opcode.
type Op uint8

// CHIP-8 opcodes. The trailing comment is the canonical encoding.
const (
	OpUnknown Op = iota
	OpSYS        // 0nnn
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEImm      // 3xkk
	OpSNEImm     // 4xkk
	OpSEReg      // 5xy0
	OpLDImm      // 6xkk
	OpADDImm     // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpLDIVx      // Fx55
	OpLDVxI      // Fx65
)

var opNames = [...]string{
	OpUnknown: "UNKNOWN",
	OpSYS:     "SYS",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

// String returns the assembler mnemonic of the opcode.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpUnknown]
}

// Format represents the operand layout of an instruction.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatNone           // No operands (CLS, RET)
	FormatAddr           // nnn
	FormatRegImm         // x, kk
	FormatRegReg         // x, y
	FormatReg            // x
	FormatDraw           // x, y, n
)

// Instruction represents a decoded CHIP-8 instruction.
type Instruction struct {
	Op     Op     // Operation code
	Format Format // Operand layout

	Word uint16 // Raw instruction word

	X   uint8  // Register index from bits 8-11
	Y   uint8  // Register index from bits 4-7
	N   uint8  // Low nibble
	KK  uint8  // Low byte
	NNN uint16 // Low 12 bits
}

// Decoder decodes CHIP-8 instruction words into instructions.
type Decoder struct{}

// NewDecoder creates a new CHIP-8 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit CHIP-8 instruction word. Encodings that do not
// belong to the canonical instruction set decode to OpUnknown.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{}
	d.DecodeInto(word, inst)
	return inst
}

// DecodeInto decodes a word into an existing instruction, overwriting all
// of its fields. It lets hot loops decode without allocating.
func (d *Decoder) DecodeInto(word uint16, inst *Instruction) {
	*inst = Instruction{
		Op:     OpUnknown,
		Format: FormatUnknown,
		Word:   word,
		X:      uint8(word>>8) & 0xF,
		Y:      uint8(word>>4) & 0xF,
		N:      uint8(word) & 0xF,
		KK:     uint8(word),
		NNN:    word & 0x0FFF,
	}

	switch word >> 12 {
	case 0x0:
		d.decodeSystem(inst)
	case 0x1:
		inst.set(OpJP, FormatAddr)
	case 0x2:
		inst.set(OpCALL, FormatAddr)
	case 0x3:
		inst.set(OpSEImm, FormatRegImm)
	case 0x4:
		inst.set(OpSNEImm, FormatRegImm)
	case 0x5:
		if inst.N == 0 {
			inst.set(OpSEReg, FormatRegReg)
		}
	case 0x6:
		inst.set(OpLDImm, FormatRegImm)
	case 0x7:
		inst.set(OpADDImm, FormatRegImm)
	case 0x8:
		d.decodeALU(inst)
	case 0x9:
		if inst.N == 0 {
			inst.set(OpSNEReg, FormatRegReg)
		}
	case 0xA:
		inst.set(OpLDI, FormatAddr)
	case 0xB:
		inst.set(OpJPV0, FormatAddr)
	case 0xC:
		inst.set(OpRND, FormatRegImm)
	case 0xD:
		inst.set(OpDRW, FormatDraw)
	case 0xE:
		d.decodeKey(inst)
	case 0xF:
		d.decodeMisc(inst)
	}
}

func (i *Instruction) set(op Op, format Format) {
	i.Op = op
	i.Format = format
}

// decodeSystem decodes the 0nnn family: CLS, RET and the ignored SYS call.
func (d *Decoder) decodeSystem(inst *Instruction) {
	switch inst.Word {
	case 0x00E0:
		inst.set(OpCLS, FormatNone)
	case 0x00EE:
		inst.set(OpRET, FormatNone)
	default:
		inst.set(OpSYS, FormatAddr)
	}
}

// decodeALU decodes the 8xyN register-to-register family.
func (d *Decoder) decodeALU(inst *Instruction) {
	switch inst.N {
	case 0x0:
		inst.set(OpLDReg, FormatRegReg)
	case 0x1:
		inst.set(OpOR, FormatRegReg)
	case 0x2:
		inst.set(OpAND, FormatRegReg)
	case 0x3:
		inst.set(OpXOR, FormatRegReg)
	case 0x4:
		inst.set(OpADDReg, FormatRegReg)
	case 0x5:
		inst.set(OpSUB, FormatRegReg)
	case 0x6:
		inst.set(OpSHR, FormatReg)
	case 0x7:
		inst.set(OpSUBN, FormatRegReg)
	case 0xE:
		inst.set(OpSHL, FormatReg)
	}
}

// decodeKey decodes the ExKK keypad skips.
func (d *Decoder) decodeKey(inst *Instruction) {
	switch inst.KK {
	case 0x9E:
		inst.set(OpSKP, FormatReg)
	case 0xA1:
		inst.set(OpSKNP, FormatReg)
	}
}

// decodeMisc decodes the FxKK timer, index and memory family.
func (d *Decoder) decodeMisc(inst *Instruction) {
	switch inst.KK {
	case 0x07:
		inst.set(OpLDVxDT, FormatReg)
	case 0x0A:
		inst.set(OpLDVxK, FormatReg)
	case 0x15:
		inst.set(OpLDDTVx, FormatReg)
	case 0x18:
		inst.set(OpLDSTVx, FormatReg)
	case 0x1E:
		inst.set(OpADDI, FormatReg)
	case 0x29:
		inst.set(OpLDF, FormatReg)
	case 0x33:
		inst.set(OpLDB, FormatReg)
	case 0x55:
		inst.set(OpLDIVx, FormatReg)
	case 0x65:
		inst.set(OpLDVxI, FormatReg)
	}
}

// IsSkip reports whether the operation conditionally skips the next
// instruction.
func (o Op) IsSkip() bool {
	switch o {
	case OpSEImm, OpSNEImm, OpSEReg, OpSNEReg, OpSKP, OpSKNP:
		return true
	}
	return false
}

// IsBranch reports whether the operation writes PC directly.
func (o Op) IsBranch() bool {
	switch o {
	case OpJP, OpJPV0, OpCALL, OpRET:
		return true
	}
	return false
}

// IsSkip reports whether the instruction conditionally skips the next one.
func (i *Instruction) IsSkip() bool {
	return i.Op.IsSkip()
}

// IsBranch reports whether the instruction writes PC directly.
func (i *Instruction) IsBranch() bool {
	return i.Op.IsBranch()
}
