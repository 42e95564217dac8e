// Package config holds ladisasm settings loaded from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/sarchlab/ladisasm/icache"
)

// CacheConfig sizes the instruction word cache used while listing.
type CacheConfig struct {
	// Size in bytes. Default: 16KB.
	Size int `yaml:"size"`

	// Associativity is the number of ways. Default: 4.
	Associativity int `yaml:"associativity"`

	// BlockSize is the line size in bytes. Must be a power of two and a
	// multiple of the instruction length. Default: 64.
	BlockSize int `yaml:"block-size"`
}

// Config defines all options that can be set through the config file.
type Config struct {
	// BufferSize is the capacity of the buffer one instruction is rendered
	// into. Longer text is truncated. Default: 64.
	BufferSize int `yaml:"buffer-size"`

	// ShowBytes prints the raw instruction bytes in listings.
	ShowBytes bool `yaml:"show-bytes"`

	// ResolveTargets annotates branch and jump lines with their target.
	ResolveTargets bool `yaml:"resolve-targets"`

	// Workers bounds how many code segments are disassembled at once.
	Workers int `yaml:"workers"`

	ICache CacheConfig `yaml:"icache"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		BufferSize:     64,
		ShowBytes:      true,
		ResolveTargets: true,
		Workers:        4,
		ICache: CacheConfig{
			Size:          16 * 1024,
			Associativity: 4,
			BlockSize:     64,
		},
	}
}

// Load reads a Config from a YAML file. Options missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return c, nil
}

// Save writes the Config to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer-size must be > 0")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}

	if err := c.ICache.toICache().Validate(); err != nil {
		return fmt.Errorf("icache: %w", err)
	}
	return nil
}

// ICacheConfig returns the instruction cache geometry.
func (c *Config) ICacheConfig() icache.Config {
	return c.ICache.toICache()
}

func (cc CacheConfig) toICache() icache.Config {
	return icache.Config{
		Size:          cc.Size,
		Associativity: cc.Associativity,
		BlockSize:     cc.BlockSize,
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
