// Package insts provides LoongArch instruction definitions and decoding.
package insts

// Fields is the format-specific payload of a decoded instruction. The
// concrete type is one of RR, RRR, FFFF, RRI6, RRI8, RRI12, RRI6I6, RRI14,
// RRI16, AUI20, RI21, I25 or Unknown, matching Format().
type Fields interface {
	Format() Format
	isFields()
}

// Unknown carries a word no table entry recognised.
type Unknown struct {
	Word uint32
}

// RR is the two-register format.
type RR struct {
	Opcode uint32
	Sel    uint32 // bits [25:10]
	Rd, Rj uint8
}

// RRR is the three-register format.
type RRR struct {
	Opcode     uint32
	Sel        uint32 // bits [25:15]
	Rd, Rj, Rk uint8
}

// FFFF is the four-register floating-point format.
type FFFF struct {
	Opcode         uint32
	Sel            uint32 // bits [25:20]
	Rd, Rj, Rk, Ra uint8
}

// RRI6 is two registers and a 6-bit immediate.
type RRI6 struct {
	Opcode uint32
	Sel    uint32 // bits [25:16]
	Rd, Rj uint8
	Imm    uint32 // bits [15:10]
}

// RRI8 is two registers and an 8-bit immediate.
type RRI8 struct {
	Opcode uint32
	Sel    uint32 // bits [25:18]
	Rd, Rj uint8
	Imm    uint32 // bits [17:10]
}

// RRI12 is two registers and a 12-bit immediate.
type RRI12 struct {
	Opcode uint32
	Sel    uint32 // bits [25:22]
	Rd, Rj uint8
	Imm    uint32 // bits [21:10]
}

// RRI6I6 is two registers and two 6-bit immediates.
type RRI6I6 struct {
	Opcode uint32
	Sel    uint32 // bits [25:22]
	Rd, Rj uint8
	Imm1   uint32 // bits [15:10]
	Imm2   uint32 // bits [21:16]
}

// RRI14 is two registers and a 14-bit immediate.
type RRI14 struct {
	Opcode uint32
	Sel    uint32 // bits [25:24]
	Rd, Rj uint8
	Imm    uint32 // bits [23:10]
}

// RRI16 is two registers and a 16-bit immediate. It has no selector.
type RRI16 struct {
	Opcode uint32
	Rd, Rj uint8
	Imm    uint32 // bits [25:10]
}

// AUI20 is one register and a 20-bit immediate.
type AUI20 struct {
	Opcode uint32
	Sel    uint32 // bit 25
	Rd     uint8
	Imm    uint32 // bits [24:5]
}

// RI21 is one register and a 21-bit immediate split across the word.
type RI21 struct {
	Opcode uint32
	Rj     uint8
	Imm    uint32 // bits [4:0] : bits [25:10]
}

// I25 is a 25-bit immediate split across the word.
type I25 struct {
	Opcode uint32
	Sel    uint32 // bit 9
	Imm    uint32 // bits [8:0] : bits [25:10]
}

func (Unknown) Format() Format { return FormatUnknown }
func (RR) Format() Format      { return FormatRR }
func (RRR) Format() Format     { return FormatRRR }
func (FFFF) Format() Format    { return FormatFFFF }
func (RRI6) Format() Format    { return FormatRRI6 }
func (RRI8) Format() Format    { return FormatRRI8 }
func (RRI12) Format() Format   { return FormatRRI12 }
func (RRI6I6) Format() Format  { return FormatRRI6I6 }
func (RRI14) Format() Format   { return FormatRRI14 }
func (RRI16) Format() Format   { return FormatRRI16 }
func (AUI20) Format() Format   { return FormatAUI20 }
func (RI21) Format() Format    { return FormatRI21 }
func (I25) Format() Format     { return FormatI25 }

func (Unknown) isFields() {}
func (RR) isFields()      {}
func (RRR) isFields()     {}
func (FFFF) isFields()    {}
func (RRI6) isFields()    {}
func (RRI8) isFields()    {}
func (RRI12) isFields()   {}
func (RRI6I6) isFields()  {}
func (RRI14) isFields()   {}
func (RRI16) isFields()   {}
func (AUI20) isFields()   {}
func (RI21) isFields()    {}
func (I25) isFields()     {}

// Instruction represents a decoded LoongArch instruction.
type Instruction struct {
	Word     uint32      // Raw instruction word
	Mnemonic string      // Empty for FormatUnknown
	Format   Format      // Encoding format
	Flags    RenderFlags // Rendering quirks from the table entry
	Fields   Fields      // Format-specific operand fields
}

// Known reports whether the word was recognised by a table entry.
func (i *Instruction) Known() bool {
	return i.Format != FormatUnknown
}

// Decoder decodes LoongArch machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new LoongArch instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode matches a 32-bit instruction word against the instruction table
// and extracts its operand fields.
func (d *Decoder) Decode(word uint32) *Instruction {
	entry, _ := Match(word)
	return &Instruction{
		Word:     word,
		Mnemonic: entry.Mnemonic,
		Format:   entry.Format,
		Flags:    entry.Flags,
		Fields:   Decode(word, entry.Format),
	}
}

// Decode extracts the fields of word according to format f. It cannot
// fail; an out-of-range format decodes as Unknown.
func Decode(word uint32, f Format) Fields {
	switch f {
	case FormatRR:
		return RR{
			Opcode: opcodeOf(word),
			Sel:    (word >> 10) & 0xFFFF,
			Rd:     rdOf(word),
			Rj:     rjOf(word),
		}
	case FormatRRR:
		return RRR{
			Opcode: opcodeOf(word),
			Sel:    (word >> 15) & 0x7FF,
			Rd:     rdOf(word),
			Rj:     rjOf(word),
			Rk:     rkOf(word),
		}
	case FormatFFFF:
		return FFFF{
			Opcode: opcodeOf(word),
			Sel:    (word >> 20) & 0x3F,
			Rd:     rdOf(word),
			Rj:     rjOf(word),
			Rk:     rkOf(word),
			Ra:     raOf(word),
		}
	case FormatRRI6:
		return RRI6{
			Opcode: opcodeOf(word),
			Sel:    (word >> 16) & 0x3FF,
			Rd:     rdOf(word),
			Rj:     rjOf(word),
			Imm:    (word >> 10) & 0x3F,
		}
	case FormatRRI8:
		return RRI8{
			Opcode: opcodeOf(word),
			Sel:    (word >> 18) & 0xFF,
			Rd:     rdOf(word),
			Rj:     rjOf(word),
			Imm:    (word >> 10) & 0xFF,
		}
	case FormatRRI12:
		return RRI12{
			Opcode: opcodeOf(word),
			Sel:    (word >> 22) & 0xF,
			Rd:     rdOf(word),
			Rj:     rjOf(word),
			Imm:    (word >> 10) & 0xFFF,
		}
	case FormatRRI6I6:
		return RRI6I6{
			Opcode: opcodeOf(word),
			Sel:    (word >> 22) & 0xF,
			Rd:     rdOf(word),
			Rj:     rjOf(word),
			Imm1:   (word >> 10) & 0x3F,
			Imm2:   ((word >> 10) & 0xFFF) >> 6,
		}
	case FormatRRI14:
		return RRI14{
			Opcode: opcodeOf(word),
			Sel:    (word >> 24) & 0x3,
			Rd:     rdOf(word),
			Rj:     rjOf(word),
			Imm:    (word >> 10) & 0x3FFF,
		}
	case FormatRRI16:
		return RRI16{
			Opcode: opcodeOf(word),
			Rd:     rdOf(word),
			Rj:     rjOf(word),
			Imm:    imm16Of(word),
		}
	case FormatAUI20:
		return AUI20{
			Opcode: opcodeOf(word),
			Sel:    (word >> 25) & 0x1,
			Rd:     rdOf(word),
			Imm:    (word >> 5) & 0xFFFFF,
		}
	case FormatRI21:
		// The high 5 bits sit where rd would be.
		return RI21{
			Opcode: opcodeOf(word),
			Rj:     rjOf(word),
			Imm:    (word&0x1F)<<16 | imm16Of(word),
		}
	case FormatI25:
		// The high 9 bits overlap the rd and rj fields.
		return I25{
			Opcode: opcodeOf(word),
			Sel:    (word >> 9) & 0x1,
			Imm:    (word&0x1FF)<<16 | imm16Of(word),
		}
	default:
		return Unknown{Word: word}
	}
}
