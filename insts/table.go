package insts

import "fmt"

// InsnLength is the size in bytes of every LoongArch instruction.
const InsnLength = 4

// Entry is one row of the instruction table. A word w is recognised by the
// entry when w&Mask == Match.
type Entry struct {
	Mnemonic string
	Format   Format
	Match    uint32
	Mask     uint32
	Flags    RenderFlags
}

// IsSentinel reports whether e is the catch-all row that ends the table.
func (e Entry) IsSentinel() bool {
	return e.Format == FormatUnknown && e.Mask == 0
}

// Matches reports whether word is recognised by e.
func (e Entry) Matches(word uint32) bool {
	return word&e.Mask == e.Match
}

// table is scanned in order and the first match wins. Mnemonics with a
// leading '!' are provisional names and are kept verbatim.
var table = []Entry{
	{"sext.h", FormatRR, 0x00005800, 0xfffffc00, 0},
	{"sext.b", FormatRR, 0x00005c00, 0xfffffc00, 0},
	{"addw", FormatRRR, 0x00100000, 0xffff8000, 0},
	{"add", FormatRRR, 0x00108000, 0xffff8000, 0},
	{"subw", FormatRRR, 0x00110000, 0xffff8000, 0},
	{"sub", FormatRRR, 0x00118000, 0xffff8000, 0},
	{"!selnez", FormatRRR, 0x00130000, 0xffff8000, 0},
	{"!seleqz", FormatRRR, 0x00138000, 0xffff8000, 0},
	{"!nor", FormatRRR, 0x00140000, 0xffff8000, 0},
	{"and", FormatRRR, 0x00148000, 0xffff8000, 0},
	{"or", FormatRRR, 0x00150000, 0xffff8000, 0},
	{"xor", FormatRRR, 0x00158000, 0xffff8000, 0},
	{"sll", FormatRRR, 0x00170000, 0xffff8000, 0},
	{"sbs", FormatRRR, 0x00180000, 0xffff8000, 0},
	{"srl", FormatRRR, 0x00190000, 0xffff8000, 0},
	{"mul", FormatRRR, 0x001d8000, 0xffff8000, 0},
	{"syscall", FormatRRR, 0x002b0000, 0xffffffff, 0},
	{"ofs.w", FormatRRR, 0x002c8000, 0xffff8000, 0},
	{"slliw", FormatRRI6, 0x00408000, 0xffff8000, FlagMinus32},
	{"slli", FormatRRI6, 0x00410000, 0xffff0000, 0},
	{"srliw", FormatRRI6, 0x00448000, 0xffff8000, FlagMinus32},
	{"srli", FormatRRI6, 0x00450000, 0xffff0000, 0},
	{"sraiw", FormatRRI6, 0x00488000, 0xffff8000, FlagMinus32},
	{"srai", FormatRRI6, 0x00490000, 0xffff0000, 0},
	{"roriw", FormatRRI6, 0x004c8000, 0xffff8000, FlagMinus32},
	{"rori", FormatRRI6, 0x004d0000, 0xffff0000, 0},
	{"ext.w", FormatRRI6I6, 0x00608000, 0xffe08000, FlagMinus32},
	{"mask", FormatRRI6I6, 0x00c00000, 0xffc00000, 0},
	{"fadd.d", FormatRRR, 0x01010000, 0xffff8000, FlagFDJK},
	{"fsub.d", FormatRRR, 0x01030000, 0xffff8000, FlagFDJK},
	{"fmul.d", FormatRRR, 0x01050000, 0xffff8000, FlagFDJK},
	{"fdiv.d", FormatRRR, 0x01070000, 0xffff8000, FlagFDJK},
	{"slti", FormatRRI12, 0x02000000, 0xffc00000, 0},
	{"sltiu", FormatRRI12, 0x02400000, 0xffc00000, FlagHex},
	{"addiw", FormatRRI12, 0x02800000, 0xffc00000, 0},
	{"addi", FormatRRI12, 0x02c00000, 0xffc00000, 0},
	{"ati", FormatRRI12, 0x03000000, 0xffc00000, FlagHex},
	{"andi", FormatRRI12, 0x03400000, 0xffc00000, FlagHex},
	{"ori", FormatRRI12, 0x03800000, 0xffc00000, FlagHex},
	{"xori", FormatRRI12, 0x03c00000, 0xffc00000, FlagHex},
	{"aui", FormatAUI20, 0x14000000, 0xfe000000, 0},
	{"ahi", FormatAUI20, 0x16000000, 0xfe000000, FlagHex},
	{"auipc", FormatAUI20, 0x1c000000, 0xfe000000, FlagHex},
	{"lw.2", FormatRRI14, 0x24000000, 0xff000000, FlagShl2 | FlagLoadStore},
	{"sw.2", FormatRRI14, 0x25000000, 0xff000000, FlagShl2 | FlagLoadStore},
	{"ld.2", FormatRRI14, 0x26000000, 0xff000000, FlagShl2 | FlagLoadStore},
	{"sd.2", FormatRRI14, 0x27000000, 0xff000000, FlagShl2 | FlagLoadStore},
	{"lb", FormatRRI12, 0x28000000, 0xffc00000, FlagLoadStore},
	{"lh", FormatRRI12, 0x28400000, 0xffc00000, FlagLoadStore},
	{"lw", FormatRRI12, 0x28800000, 0xffc00000, FlagLoadStore},
	{"ld", FormatRRI12, 0x28c00000, 0xffc00000, FlagLoadStore},
	{"sb", FormatRRI12, 0x29000000, 0xffc00000, FlagLoadStore},
	{"sh", FormatRRI12, 0x29400000, 0xffc00000, FlagLoadStore},
	{"sw", FormatRRI12, 0x29800000, 0xffc00000, FlagLoadStore},
	{"sd", FormatRRI12, 0x29c00000, 0xffc00000, FlagLoadStore},
	{"lb.2", FormatRRI12, 0x2a000000, 0xffc00000, FlagLoadStore},
	{"lh.2", FormatRRI12, 0x2a400000, 0xffc00000, FlagLoadStore},
	{"fld", FormatRRI12, 0x2b800000, 0xffc00000, FlagRdFPR | FlagLoadStore},
	{"fsd", FormatRRI12, 0x2bc00000, 0xffc00000, FlagRdFPR | FlagLoadStore},
	{"beqz", FormatRI21, 0x40000000, 0xfc000000, FlagJumpOffset},
	{"bnez", FormatRI21, 0x44000000, 0xfc000000, FlagJumpOffset},
	{"!bfp", FormatRI21, 0x48000000, 0xfc000000, FlagJumpOffset},
	{"jalr", FormatRR, 0x4c000000, 0xfffffc00, 0},
	{"j", FormatI25, 0x50000000, 0xfc000000, FlagJumpOffset},
	{"jal", FormatI25, 0x54000000, 0xfc000000, FlagJumpOffset},
	{"beq", FormatRRI16, 0x58000000, 0xfc000000, FlagJumpOffset},
	{"bne", FormatRRI16, 0x5c000000, 0xfc000000, FlagJumpOffset},
	{"bgt", FormatRRI16, 0x60000000, 0xfc000000, FlagJumpOffset},
	{"ble.2", FormatRRI16, 0x64000000, 0xfc000000, FlagJumpOffset},
	{"bgt.2", FormatRRI16, 0x68000000, 0xfc000000, FlagJumpOffset},
	{"ble", FormatRRI16, 0x6c000000, 0xfc000000, FlagJumpOffset},

	// Sentinel and ultimate fallback.
	{"", FormatUnknown, 0x00000000, 0x00000000, 0},
}

// Table returns a copy of the instruction table, sentinel included.
func Table() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Validate checks the authoring invariants of the instruction table.
func Validate() error {
	return validateTable(table)
}

func validateTable(t []Entry) error {
	if len(t) == 0 || !t[len(t)-1].IsSentinel() {
		return fmt.Errorf("instruction table does not end with a zero-mask sentinel")
	}

	for i, e := range t[:len(t)-1] {
		if e.Match&^e.Mask != 0 {
			return fmt.Errorf("entry %d (%q): match 0x%08x has bits outside mask 0x%08x",
				i, e.Mnemonic, e.Match, e.Mask)
		}
		if e.Mask == 0 || e.Format == FormatUnknown {
			return fmt.Errorf("entry %d (%q): only the final entry may be a catch-all", i, e.Mnemonic)
		}
		if e.Mnemonic == "" {
			return fmt.Errorf("entry %d: empty mnemonic", i)
		}

		// An earlier entry whose mask is a subset of this one and which
		// agrees on those bits recognises every word this entry would.
		for j, prev := range t[:i] {
			if prev.Mask&e.Mask == prev.Mask && e.Match&prev.Mask == prev.Match {
				return fmt.Errorf("entry %d (%q) is unreachable: shadowed by entry %d (%q)",
					i, e.Mnemonic, j, prev.Mnemonic)
			}
		}
	}

	return nil
}
