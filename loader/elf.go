// Package loader provides ELF and flat binary loading for LoongArch code.
package loader

import (
	"debug/elf"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/ladisasm/logflags"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment represents a loadable segment of a program image.
type Segment struct {
	// VirtAddr is the virtual address where this segment is loaded.
	VirtAddr uint64
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint64
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// End returns the first address past the file-backed part of the segment.
func (s *Segment) End() uint64 {
	return s.VirtAddr + uint64(len(s.Data))
}

// Program represents a loaded program image.
type Program struct {
	// EntryPoint is the virtual address where execution begins.
	EntryPoint uint64
	// Segments contains all loadable segments.
	Segments []Segment
}

// Load parses a LoongArch ELF64 binary and returns its loadable segments.
func Load(path string) (*Program, error) {
	log := logflags.LoaderLogger()

	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("not a 64-bit ELF file")
	}

	if f.Machine != elf.EM_LOONGARCH {
		return nil, fmt.Errorf("not a LoongArch ELF file (machine type: %v)", f.Machine)
	}

	if f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("not a little-endian ELF file")
	}

	prog := &Program{EntryPoint: f.Entry}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		log.WithField("vaddr", fmt.Sprintf("%#x", phdr.Vaddr)).
			Debugf("segment filesz=%d memsz=%d flags=%v", phdr.Filesz, phdr.Memsz, phdr.Flags)

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			Data:     data,
			MemSize:  phdr.Memsz,
			Flags:    flags,
		})
	}

	log.Debugf("loaded %s: entry=%#x segments=%d", path, prog.EntryPoint, len(prog.Segments))
	return prog, nil
}

// LoadRaw reads a flat binary and maps it as a single executable segment
// at base. The entry point is base.
func LoadRaw(path string, base uint64) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw binary: %w", err)
	}

	logflags.LoaderLogger().Debugf("loaded raw %s: %d bytes at %#x", path, len(data), base)
	return FromBytes(data, base), nil
}

// FromBytes wraps code as a single executable segment at base.
func FromBytes(code []byte, base uint64) *Program {
	return &Program{
		EntryPoint: base,
		Segments: []Segment{{
			VirtAddr: base,
			Data:     code,
			MemSize:  uint64(len(code)),
			Flags:    SegmentFlagRead | SegmentFlagExecute,
		}},
	}
}

// CodeSegments returns the executable segments that carry file data.
func (p *Program) CodeSegments() []Segment {
	var segs []Segment
	for _, seg := range p.Segments {
		if seg.Flags&SegmentFlagExecute != 0 && len(seg.Data) > 0 {
			segs = append(segs, seg)
		}
	}
	return segs
}

// Read returns size bytes of the image starting at addr. Bytes not backed
// by file data, including BSS, read as zero.
func (p *Program) Read(addr uint64, size int) []byte {
	out := make([]byte, size)
	for _, seg := range p.Segments {
		segEnd := seg.End()
		if addr+uint64(size) <= seg.VirtAddr || addr >= segEnd {
			continue
		}

		lo := addr
		if lo < seg.VirtAddr {
			lo = seg.VirtAddr
		}
		hi := addr + uint64(size)
		if hi > segEnd {
			hi = segEnd
		}
		copy(out[lo-addr:hi-addr], seg.Data[lo-seg.VirtAddr:hi-seg.VirtAddr])
	}
	return out
}
