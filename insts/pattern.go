package insts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLayout is returned by ParsePattern when the operand fields of a
// pattern do not correspond to any format.
var ErrUnknownLayout = errors.New("operand layout matches no format")

// ParsePattern builds a table entry from a bit-pattern description such as
//
//	000000 1010 IMM_________ RJ___ RD___ addiw
//
// Fragments are read most significant bit first. '0' and '1' are fixed
// bits; any other character is a don't-care bit. Digits inside field names
// count too, so IMM1_ fixes its fourth bit to 1. Fragments starting with R
// or F are registers, fragments containing IMM are immediates (IMM_LO and
// IMM_HI halves count as one immediate). After 32 bits the next fragment is
// the mnemonic and anything following it is ignored. The format is guessed
// from the register and immediate counts; Flags are left empty.
func ParsePattern(line string) (Entry, error) {
	frags := strings.Fields(line)

	var (
		match, mask uint32
		bits        int
		regs        int
		imms        int
		immBits     int
		partialImm  bool
		mnemonic    string
	)

	for _, frag := range frags {
		if bits == 32 {
			mnemonic = frag
			break
		}

		for _, ch := range frag {
			match <<= 1
			mask <<= 1
			switch ch {
			case '0':
				mask |= 1
			case '1':
				match |= 1
				mask |= 1
			}
		}
		bits += len(frag)
		if bits > 32 {
			return Entry{}, fmt.Errorf("pattern %q: more than 32 bits", line)
		}

		switch {
		case frag[0] == 'R' || frag[0] == 'F':
			regs++
		case strings.Contains(frag, "IMM"):
			if !partialImm {
				imms++
				if strings.Contains(frag, "LO") || strings.Contains(frag, "HI") {
					partialImm = true
				}
			}
			immBits += len(frag)
		}
	}

	if bits != 32 {
		return Entry{}, fmt.Errorf("pattern %q: got %d bits, want 32", line, bits)
	}
	if mnemonic == "" {
		return Entry{}, fmt.Errorf("pattern %q: missing mnemonic", line)
	}

	format := guessFormat(regs, imms, immBits)
	if format == FormatUnknown {
		return Entry{}, fmt.Errorf("pattern %q: %w", line, ErrUnknownLayout)
	}

	return Entry{
		Mnemonic: mnemonic,
		Format:   format,
		Match:    match,
		Mask:     mask,
	}, nil
}

func guessFormat(regs, imms, immBits int) Format {
	switch imms {
	case 0:
		switch regs {
		case 2:
			return FormatRR
		case 3:
			return FormatRRR
		case 4:
			return FormatFFFF
		}
	case 2:
		// The only format with two immediates.
		return FormatRRI6I6
	case 1:
		switch {
		case immBits >= 5 && immBits <= 6 && regs == 2:
			return FormatRRI6
		case immBits == 8 && regs == 2:
			return FormatRRI8
		case immBits >= 10 && immBits <= 12 && regs == 2:
			return FormatRRI12
		case immBits == 14 && regs == 2:
			return FormatRRI14
		case immBits == 16 && regs == 2:
			return FormatRRI16
		case immBits == 20 && regs == 1:
			return FormatAUI20
		case immBits == 21 && regs == 1:
			return FormatRI21
		case immBits == 25 && regs == 0:
			return FormatI25
		}
	}
	return FormatUnknown
}
