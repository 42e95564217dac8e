// Package icache provides a read-only instruction cache over a program image
// using Akita cache components.
package icache

import (
	"encoding/binary"
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

// DefaultConfig returns a 16KB, 4-way cache with 64B lines.
func DefaultConfig() Config {
	return Config{
		Size:          16 * 1024,
		Associativity: 4,
		BlockSize:     64,
	}
}

// Validate checks that the geometry describes at least one whole set.
func (c Config) Validate() error {
	if c.BlockSize < 4 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("block size must be a power of two of at least 4, got %d", c.BlockSize)
	}
	if c.Associativity <= 0 {
		return fmt.Errorf("associativity must be positive, got %d", c.Associativity)
	}
	if c.Size <= 0 || c.Size%(c.Associativity*c.BlockSize) != 0 {
		return fmt.Errorf("size %d is not a multiple of associativity*block size (%d)",
			c.Size, c.Associativity*c.BlockSize)
	}
	return nil
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads     uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the fraction of line lookups that hit, or 0 before any
// lookup.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// BackingStore is the memory a cache fills its lines from.
type BackingStore interface {
	// Read fetches size bytes starting at addr.
	Read(addr uint64, size int) []byte
}

// Cache is a read-only set-associative cache. It is not safe for
// concurrent use.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]byte

	stats   Statistics
	backing BackingStore
}

// New creates a new cache with the given configuration. The configuration
// must pass Validate.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

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

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint64) uint64 {
	return addr &^ uint64(c.config.BlockSize-1)
}

// ReadWord returns the little-endian 32-bit word at addr and whether every
// line it touched was already cached.
func (c *Cache) ReadWord(addr uint64) (uint32, bool) {
	c.stats.Reads++

	if off := addr - c.blockAddr(addr); off+4 <= uint64(c.config.BlockSize) {
		line, hit := c.line(addr)
		return binary.LittleEndian.Uint32(line[off : off+4]), hit
	}

	data, hit := c.read(addr, 4)
	return binary.LittleEndian.Uint32(data), hit
}

// Read returns size bytes starting at addr, filling lines as needed. It lets
// a Cache stand in wherever a BackingStore is expected.
func (c *Cache) Read(addr uint64, size int) []byte {
	c.stats.Reads++
	data, _ := c.read(addr, size)
	return data
}

func (c *Cache) read(addr uint64, size int) ([]byte, bool) {
	out := make([]byte, 0, size)
	allHit := true

	for len(out) < size {
		cur := addr + uint64(len(out))
		line, hit := c.line(cur)
		allHit = allHit && hit

		off := cur - c.blockAddr(cur)
		n := uint64(size - len(out))
		if rest := uint64(c.config.BlockSize) - off; n > rest {
			n = rest
		}
		out = append(out, line[off:off+n]...)
	}

	return out, allHit
}

// line returns the cached data of the line holding addr, filling it from
// the backing store on a miss.
func (c *Cache) line(addr uint64) ([]byte, bool) {
	blockAddr := c.blockAddr(addr)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return c.dataStore[c.blockIndex(block)], true
	}

	c.stats.Misses++
	return c.fill(blockAddr), false
}

func (c *Cache) fill(blockAddr uint64) []byte {
	victim := c.directory.FindVictim(blockAddr)
	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
	}

	if c.backing != nil {
		n := copy(victimData, c.backing.Read(blockAddr, c.config.BlockSize))
		clear(victimData[n:])
	} else {
		clear(victimData)
	}

	// Tag stores the block-aligned address
	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return victimData
}

// Contains reports whether the line holding addr is cached, without
// touching LRU state or statistics.
func (c *Cache) Contains(addr uint64) bool {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	return block != nil && block.IsValid
}

// Invalidate marks the cache line holding addr as invalid.
func (c *Cache) Invalidate(addr uint64) {
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
