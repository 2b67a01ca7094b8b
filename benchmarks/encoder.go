package benchmarks

// Instruction encoders for hand-assembling benchmark programs.

// BuildProgram assembles big-endian instruction words into a program image.
func BuildProgram(words ...uint16) []byte {
	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}
	return program
}

// EncodeRET encodes 00EE.
func EncodeRET() uint16 {
	return 0x00EE
}

// EncodeJP encodes 1nnn.
func EncodeJP(nnn uint16) uint16 {
	return 0x1000 | nnn&0x0FFF
}

// EncodeCALL encodes 2nnn.
func EncodeCALL(nnn uint16) uint16 {
	return 0x2000 | nnn&0x0FFF
}

// EncodeSEImm encodes 3xkk.
func EncodeSEImm(x, kk uint8) uint16 {
	return 0x3000 | uint16(x&0xF)<<8 | uint16(kk)
}

// EncodeSNEImm encodes 4xkk.
func EncodeSNEImm(x, kk uint8) uint16 {
	return 0x4000 | uint16(x&0xF)<<8 | uint16(kk)
}

// EncodeLDImm encodes 6xkk.
func EncodeLDImm(x, kk uint8) uint16 {
	return 0x6000 | uint16(x&0xF)<<8 | uint16(kk)
}

// EncodeADDImm encodes 7xkk.
func EncodeADDImm(x, kk uint8) uint16 {
	return 0x7000 | uint16(x&0xF)<<8 | uint16(kk)
}

// EncodeALU encodes 8xyn.
func EncodeALU(x, y, n uint8) uint16 {
	return 0x8000 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF)
}

// EncodeLDI encodes Annn.
func EncodeLDI(nnn uint16) uint16 {
	return 0xA000 | nnn&0x0FFF
}

// EncodeRND encodes Cxkk.
func EncodeRND(x, kk uint8) uint16 {
	return 0xC000 | uint16(x&0xF)<<8 | uint16(kk)
}

// EncodeDRW encodes Dxyn.
func EncodeDRW(x, y, n uint8) uint16 {
	return 0xD000 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF)
}

// EncodeMisc encodes the Fxkk group, e.g. EncodeMisc(x, 0x33) for LD B, Vx.
func EncodeMisc(x, kk uint8) uint16 {
	return 0xF000 | uint16(x&0xF)<<8 | uint16(kk)
}
