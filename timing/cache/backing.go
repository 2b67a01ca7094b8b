package cache

import (
	"github.com/sarchlab/chip8sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory. The returned slice is a copy.
func (m *MemoryBacking) Read(addr uint16, size int) ([]byte, error) {
	src, err := m.memory.Slice(addr, size)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	copy(data, src)
	return data, nil
}
