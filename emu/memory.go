// Package emu provides functional CHIP-8 emulation.
package emu

import "fmt"

// CHIP-8 memory map:
//
//	0x000-0x04F: built-in font (16 glyphs of 5 bytes)
//	0x050-0x1FF: reserved for the interpreter
//	0x200-0xFFF: program space (3584 bytes)
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096

	// MaxAddress is the highest valid memory address.
	MaxAddress = MemorySize - 1

	// ProgramStart is the address programs are loaded to and start at.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits between ProgramStart
	// and the end of memory.
	MaxProgramSize = MemorySize - ProgramStart
)

// Memory is the 4 KiB CHIP-8 address space.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates a zeroed memory with the font loaded at FontStart.
func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes the whole address space and reloads the font.
func (m *Memory) Reset() {
	m.data = [MemorySize]byte{}
	copy(m.data[FontStart:], font[:])
}

// CheckRange returns ErrAddressOutOfRange if any address of the n byte
// window starting at addr lies past MaxAddress.
func (m *Memory) CheckRange(addr uint16, n int) error {
	if n <= 0 {
		return nil
	}
	if int(addr)+n-1 > MaxAddress {
		return fmt.Errorf("%w: 0x%04X+%d", ErrAddressOutOfRange, addr, n)
	}
	return nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint16) (byte, error) {
	if err := m.CheckRange(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint16, value byte) error {
	if err := m.CheckRange(addr, 1); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// Read16 reads a big-endian 16-bit word, the layout of CHIP-8 instructions.
func (m *Memory) Read16(addr uint16) (uint16, error) {
	if err := m.CheckRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// Write16 writes a big-endian 16-bit word.
func (m *Memory) Write16(addr uint16, value uint16) error {
	if err := m.CheckRange(addr, 2); err != nil {
		return err
	}
	m.data[addr] = byte(value >> 8)
	m.data[addr+1] = byte(value)
	return nil
}

// Slice returns the n bytes starting at addr. The returned slice aliases
// memory and must not be retained across instructions.
func (m *Memory) Slice(addr uint16, n int) ([]byte, error) {
	if err := m.CheckRange(addr, n); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	return m.data[int(addr) : int(addr)+n], nil
}

// LoadProgram copies program into memory starting at ProgramStart.
// Programs that do not fit are rejected and memory is left untouched.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.data[ProgramStart:], program)
	return nil
}
