// Package cache models an instruction fetch cache in front of CHIP-8
// memory using Akita cache components. CHIP-8 hardware has no cache; the
// model measures the fetch locality of a program for profiling.
package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
}

// DefaultFetchConfig returns the default fetch cache configuration: 256
// bytes, 2-way, 16 byte lines (eight instructions per line).
func DefaultFetchConfig() Config {
	return Config{
		Size:          256,
		Associativity: 2,
		BlockSize:     16,
	}
}

// Validate checks that the geometry divides evenly into sets.
func (c Config) Validate() error {
	if c.Size <= 0 || c.Associativity <= 0 || c.BlockSize <= 0 {
		return fmt.Errorf("cache size, associativity and block size must be > 0")
	}
	if c.BlockSize%2 != 0 {
		return fmt.Errorf("block size must hold whole instructions")
	}
	if c.Size%(c.Associativity*c.BlockSize) != 0 {
		return fmt.Errorf("size %d is not a multiple of associativity*block size", c.Size)
	}
	return nil
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Data is the big-endian value read.
	Data uint16
	// Evicted is true if a valid block was replaced.
	Evicted bool
	// EvictedAddr is the address of the evicted block (if Evicted is true).
	EvictedAddr uint16
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads     uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the fraction of reads that hit, or 0 before any read.
func (s Statistics) HitRate() float64 {
	if s.Reads == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Reads)
}

// BackingStore is the memory behind the cache.
type BackingStore interface {
	// Read fetches size bytes starting at addr.
	Read(addr uint16, size int) ([]byte, error)
}

// Cache is a read-only fetch cache using an Akita directory for tag and
// replacement state.
type Cache struct {
	// Configuration
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]byte

	// Statistics
	stats Statistics

	backing BackingStore
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	// Initialize data storage
	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// blockIndex computes the index into dataStore for a block.
func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint16) uint64 {
	return uint64(addr) / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)
}

// Read performs a cache read of one or two bytes. Reads that straddle a
// line boundary are served from the line holding addr, with the remaining
// byte taken from the backing store.
func (c *Cache) Read(addr uint16, size int) AccessResult {
	c.stats.Reads++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, blockAddr)

	result := AccessResult{}
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block) // Update LRU
		result.Hit = true
	} else {
		c.stats.Misses++
		block = c.fill(blockAddr, &result)
		if block == nil {
			return result
		}
	}

	offset := int(uint64(addr) - blockAddr)
	result.Data = c.extract(c.dataStore[c.blockIndex(block)], addr, offset, size)
	return result
}

// ObserveFetch records an instruction fetch at addr.
func (c *Cache) ObserveFetch(addr uint16) {
	c.Read(addr, 2)
}

// fill replaces a victim block with the line at blockAddr.
func (c *Cache) fill(blockAddr uint64, result *AccessResult) *akitacache.Block {
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return nil
	}

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint16(victim.Tag) // Tag stores block-aligned address
	}

	victimData := c.dataStore[c.blockIndex(victim)]
	clear(victimData)
	if c.backing != nil {
		if data, err := c.backing.Read(uint16(blockAddr), c.config.BlockSize); err == nil {
			copy(victimData, data)
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return victim
}

func (c *Cache) extract(line []byte, addr uint16, offset, size int) uint16 {
	var value uint16
	for i := 0; i < size; i++ {
		var b byte
		if offset+i < len(line) {
			b = line[offset+i]
		} else if c.backing != nil {
			if data, err := c.backing.Read(addr+uint16(i), 1); err == nil {
				b = data[0]
			}
		}
		value = value<<8 | uint16(b)
	}
	return value
}

// ObserveWrite invalidates every line overlapping the n bytes written at
// addr, so later fetches see self-modified code.
func (c *Cache) ObserveWrite(addr uint16, n int) {
	if n <= 0 {
		return
	}
	first := c.blockAddr(addr)
	last := c.blockAddr(addr + uint16(n-1))
	for block := first; block <= last; block += uint64(c.config.BlockSize) {
		c.Invalidate(uint16(block))
	}
}

// Invalidate marks the cache line holding addr as invalid.
func (c *Cache) Invalidate(addr uint16) {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// Reset invalidates all cache lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

// ValidLines returns the number of valid lines.
func (c *Cache) ValidLines() int {
	n := 0
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				n++
			}
		}
	}
	return n
}
