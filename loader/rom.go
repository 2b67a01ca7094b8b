// Package loader provides CHIP-8 ROM image loading.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/chip8sim/emu"
)

// ErrEmptyROM is returned for ROM images with no bytes.
var ErrEmptyROM = errors.New("empty ROM image")

// Program represents a ROM image ready for loading into the emulator.
// CHIP-8 ROMs are raw instruction bytes with no header; they are always
// loaded at emu.ProgramStart.
type Program struct {
	// Name is the ROM's base file name without extension.
	Name string
	// Data contains the ROM contents.
	Data []byte
}

// Load reads a ROM image from path.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Base(path)
	prog.Name = strings.TrimSuffix(base, filepath.Ext(base))
	return prog, nil
}

// LoadReader reads a ROM image from r. Images that are empty or larger
// than emu.MaxProgramSize are rejected.
func LoadReader(r io.Reader) (*Program, error) {
	// Read one byte past the limit to detect oversized images without
	// buffering the whole input.
	data, err := io.ReadAll(io.LimitReader(r, emu.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrEmptyROM
	}
	if len(data) > emu.MaxProgramSize {
		return nil, fmt.Errorf("%w: more than %d bytes", emu.ErrProgramTooLarge, emu.MaxProgramSize)
	}

	return &Program{Data: data}, nil
}

// Size returns the ROM size in bytes.
func (p *Program) Size() int {
	return len(p.Data)
}

// LoadInto copies the program into the emulator's memory.
func (p *Program) LoadInto(e *emu.Emulator) error {
	return e.LoadProgram(p.Data)
}
