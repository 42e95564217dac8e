package insts

// Format represents an instruction encoding format (operand layout).
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatRR             // rd, rj
	FormatRRR            // rd, rj, rk
	FormatFFFF           // fd, fj, fk, fa
	FormatRRI6           // rd, rj, 6-bit immediate
	FormatRRI8           // rd, rj, 8-bit immediate
	FormatRRI12          // rd, rj, 12-bit immediate
	FormatRRI6I6         // rd, rj, two 6-bit immediates
	FormatRRI14          // rd, rj, 14-bit immediate
	FormatRRI16          // rd, rj, 16-bit immediate
	FormatAUI20          // rd, 20-bit immediate
	FormatRI21           // rj, split 21-bit immediate
	FormatI25            // split 25-bit immediate
	numFormats
)

var formatNames = [numFormats]string{
	FormatUnknown: "UNK",
	FormatRR:      "RR",
	FormatRRR:     "RRR",
	FormatFFFF:    "FFFF",
	FormatRRI6:    "RRI6",
	FormatRRI8:    "RRI8",
	FormatRRI12:   "RRI12",
	FormatRRI6I6:  "RRI6I6",
	FormatRRI14:   "RRI14",
	FormatRRI16:   "RRI16",
	FormatAUI20:   "AUI20",
	FormatRI21:    "RI21",
	FormatI25:     "I25",
}

func (f Format) String() string {
	if f >= numFormats {
		return "UNK"
	}
	return formatNames[f]
}

// ImmWidth returns the width in bits of the format's immediate field, or 0
// if the format carries none. For FormatRRI6I6 it is the width of each of
// the two fields.
func (f Format) ImmWidth() uint {
	switch f {
	case FormatRRI6, FormatRRI6I6:
		return 6
	case FormatRRI8:
		return 8
	case FormatRRI12:
		return 12
	case FormatRRI14:
		return 14
	case FormatRRI16:
		return 16
	case FormatAUI20:
		return 20
	case FormatRI21:
		return 21
	case FormatI25:
		return 25
	default:
		return 0
	}
}

// ParseFormat returns the format with the given catalog name.
func ParseFormat(name string) (Format, bool) {
	for f, n := range formatNames {
		if n == name {
			return Format(f), true
		}
	}
	return FormatUnknown, false
}

// Field extraction. Register fields are always 5 bits wide.

func opcodeOf(word uint32) uint32 { return word >> 26 } // bits [31:26]

func rdOf(word uint32) uint8 { return uint8(word & 0x1F) } // bits [4:0]

func rjOf(word uint32) uint8 { return uint8((word >> 5) & 0x1F) } // bits [9:5]

func rkOf(word uint32) uint8 { return uint8((word >> 10) & 0x1F) } // bits [14:10]

func raOf(word uint32) uint8 { return uint8((word >> 15) & 0x1F) } // bits [19:15]

func imm16Of(word uint32) uint32 { return (word >> 10) & 0xFFFF } // bits [25:10]
