// Package listing disassembles address ranges of a program image into
// annotated instruction lines.
package listing

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/sarchlab/ladisasm/config"
	"github.com/sarchlab/ladisasm/icache"
	"github.com/sarchlab/ladisasm/insts"
)

// Kind classifies the control flow effect of an instruction.
type Kind uint8

const (
	KindOther Kind = iota
	KindBranch
	KindJump
	KindCall
	KindIndirect
)

func (k Kind) String() string {
	switch k {
	case KindBranch:
		return "branch"
	case KindJump:
		return "jump"
	case KindCall:
		return "call"
	case KindIndirect:
		return "indirect"
	default:
		return "other"
	}
}

// Line is one disassembled instruction.
type Line struct {
	PC    uint64
	Bytes []byte
	Word  uint32
	// Inst is nil for a trailing fragment shorter than one instruction.
	Inst *insts.Instruction
	Text string
	Kind Kind

	Target    uint64
	HasTarget bool
}

// IsCall reports whether the line is a direct call.
func (l *Line) IsCall() bool {
	return l.Kind == KindCall
}

// Options controls how ranges are disassembled and printed.
type Options struct {
	// BufferSize caps the rendered text of each instruction.
	BufferSize int
	// ShowBytes prints the raw bytes column.
	ShowBytes bool
	// ResolveTargets annotates PC-relative targets.
	ResolveTargets bool
	// Workers bounds concurrent region disassembly.
	Workers int
	// Cache is the per-worker instruction cache geometry.
	Cache icache.Config
	// DecodeCacheSize bounds the shared decoded-word cache. Zero disables
	// it.
	DecodeCacheSize int
}

// DefaultOptions returns the options of the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig converts a tool configuration into listing options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BufferSize:      cfg.BufferSize,
		ShowBytes:       cfg.ShowBytes,
		ResolveTargets:  cfg.ResolveTargets,
		Workers:         cfg.Workers,
		DecodeCacheSize: DefaultDecodeCacheSize,
		Cache:           cfg.ICacheConfig(),
	}
}

// Memory is the image a range is read from. Both *loader.Program and
// *icache.Cache satisfy it.
type Memory interface {
	Read(addr uint64, size int) []byte
}

type wordReader interface {
	ReadWord(addr uint64) (uint32, bool)
}

// Disassemble decodes [start, end) of mem. A trailing fragment shorter than
// one instruction is reported as a .byte line.
func Disassemble(mem Memory, start, end uint64, opts Options) ([]Line, error) {
	dc, err := newDecodeCache(opts.DecodeCacheSize)
	if err != nil {
		return nil, err
	}
	return disassemble(context.Background(), mem, start, end, opts, dc)
}

func disassemble(ctx context.Context, mem Memory, start, end uint64, opts Options, dc *decodeCache) ([]Line, error) {
	if end < start {
		return nil, fmt.Errorf("invalid range %#x-%#x", start, end)
	}

	bufSize := opts.BufferSize
	if bufSize <= 0 {
		bufSize = insts.DefaultBufferSize
	}
	buf := make([]byte, bufSize)
	words, _ := mem.(wordReader)

	lines := make([]Line, 0, (end-start)/insts.InsnLength+1)
	for pc := start; pc < end; pc += insts.InsnLength {
		if len(lines)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if end-pc < insts.InsnLength {
			lines = append(lines, tailLine(pc, mem.Read(pc, int(end-pc))))
			break
		}

		var b []byte
		if words != nil {
			w, _ := words.ReadWord(pc)
			b = binary.LittleEndian.AppendUint32(nil, w)
		} else {
			b = mem.Read(pc, insts.InsnLength)
		}
		if len(b) < insts.InsnLength {
			return nil, fmt.Errorf("reading %#x: %w", pc, insts.ErrInsufficientInput)
		}

		inst := dc.decode(binary.LittleEndian.Uint32(b))

		line := Line{
			PC:    pc,
			Bytes: b,
			Word:  inst.Word,
			Inst:  inst,
			Text:  string(buf[:insts.RenderTo(buf, inst, pc)]),
			Kind:  classify(inst),
		}
		line.Target, line.HasTarget = insts.Target(inst, pc)
		lines = append(lines, line)
	}

	return lines, nil
}

func tailLine(pc uint64, b []byte) Line {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("0x%02x", v)
	}
	return Line{
		PC:    pc,
		Bytes: b,
		Text:  ".byte " + strings.Join(parts, ", "),
	}
}

func classify(inst *insts.Instruction) Kind {
	switch inst.Mnemonic {
	case "jal":
		return KindCall
	case "j":
		return KindJump
	case "jalr":
		return KindIndirect
	}
	if inst.Flags.Has(insts.FlagJumpOffset) {
		return KindBranch
	}
	return KindOther
}
