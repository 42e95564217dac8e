package insts

import "fmt"

// SignExtend interprets the low width bits of u as a two's complement
// number. Bits above width are ignored.
func SignExtend(u uint32, width uint) int32 {
	if width == 0 || width >= 32 {
		return int32(u)
	}
	u &= 1<<width - 1
	if u < 1<<(width-1) {
		return int32(u)
	}
	return int32(int64(u) - int64(1)<<width)
}

// adjust applies the bias and scaling quirks to an immediate, in that
// order.
func adjust(v int64, flags RenderFlags) int64 {
	if flags.Has(FlagMinus32) {
		v -= 32
	}
	if flags.Has(FlagShl2) {
		v *= 4
	}
	return v
}

// Target returns the absolute address a jump-offset instruction at pc
// refers to. ok is false for instructions without a PC-relative operand.
func Target(inst *Instruction, pc uint64) (target uint64, ok bool) {
	if !inst.Flags.Has(FlagJumpOffset) {
		return 0, false
	}

	var imm uint32
	switch f := inst.Fields.(type) {
	case RRI16:
		imm = f.Imm
	case RI21:
		imm = f.Imm
	case I25:
		imm = f.Imm
	default:
		return 0, false
	}

	offset := int64(SignExtend(imm, inst.Format.ImmWidth())) * InsnLength
	return pc + uint64(offset), true
}

// Render formats inst as "mnemonic operands". pc is the address of the
// instruction and is only used for PC-relative targets.
func Render(inst *Instruction, pc uint64) string {
	flags := inst.Flags
	m := inst.Mnemonic
	rd := func(r uint8) string { return regName(r, flags.Has(FlagRdFPR)) }
	rj := func(r uint8) string { return regName(r, flags.Has(FlagRjFPR)) }
	rk := func(r uint8) string { return regName(r, flags.Has(FlagRkFPR)) }

	switch f := inst.Fields.(type) {
	case RR:
		return fmt.Sprintf("%s %s, %s", m, rd(f.Rd), rj(f.Rj))

	case RRR:
		return fmt.Sprintf("%s %s, %s, %s", m, rd(f.Rd), rj(f.Rj), rk(f.Rk))

	case FFFF:
		return fmt.Sprintf("%s %s, %s, %s, %s", m,
			FPRName(f.Rd), FPRName(f.Rj), FPRName(f.Rk), FPRName(f.Ra))

	case RRI6:
		return fmt.Sprintf("%s %s, %s, %d", m, rd(f.Rd), rj(f.Rj), adjust(int64(f.Imm), flags))

	case RRI8:
		return fmt.Sprintf("%s %s, %s, %s", m, rd(f.Rd), rj(f.Rj), unsignedImm(f.Imm, flags))

	case RRI12:
		return renderSignedImm(m, rd(f.Rd), rj(f.Rj), f.Imm, 12, flags)

	case RRI6I6:
		return fmt.Sprintf("%s %s, %s, %d, %d", m, rd(f.Rd), rj(f.Rj),
			adjust(int64(f.Imm1), flags), adjust(int64(f.Imm2), flags))

	case RRI14:
		return renderSignedImm(m, rd(f.Rd), rj(f.Rj), f.Imm, 14, flags)

	case RRI16:
		if target, ok := Target(inst, pc); ok {
			return fmt.Sprintf("%s %s, %s, %#x", m, rd(f.Rd), rj(f.Rj), target)
		}
		return fmt.Sprintf("%s %s, %s, %s", m, rd(f.Rd), rj(f.Rj), unsignedImm(f.Imm, flags))

	case AUI20:
		return fmt.Sprintf("%s %s, %s", m, rd(f.Rd), unsignedImm(f.Imm, flags))

	case RI21:
		if target, ok := Target(inst, pc); ok {
			return fmt.Sprintf("%s %s, %#x", m, rj(f.Rj), target)
		}
		return fmt.Sprintf("%s %s, %s", m, rj(f.Rj), unsignedImm(f.Imm, flags))

	case I25:
		if target, ok := Target(inst, pc); ok {
			return fmt.Sprintf("%s %#x", m, target)
		}
		return fmt.Sprintf("%s %s", m, unsignedImm(f.Imm, flags))

	default:
		return fmt.Sprintf("??? %08x", inst.Word)
	}
}

// RenderTo writes the rendering of inst into buf and returns the number of
// bytes written. Text that does not fit is truncated at len(buf).
func RenderTo(buf []byte, inst *Instruction, pc uint64) int {
	return copy(buf, Render(inst, pc))
}

// unsignedImm renders a zero-extended immediate after the bias and scaling
// quirks. Hex output shows the adjusted value as 32 bits.
func unsignedImm(imm uint32, flags RenderFlags) string {
	v := adjust(int64(imm), flags)
	if flags.Has(FlagHex) {
		return fmt.Sprintf("%#x", uint32(v))
	}
	return fmt.Sprintf("%d", v)
}

// renderSignedImm covers the 12- and 14-bit formats: a sign-extended
// immediate, shown as a memory operand, as unsigned hex, or as decimal.
func renderSignedImm(m, rd, rj string, imm uint32, width uint, flags RenderFlags) string {
	simm := adjust(int64(SignExtend(imm, width)), flags)

	switch {
	case flags.Has(FlagLoadStore):
		return fmt.Sprintf("%s %s, %d(%s)", m, rd, simm, rj)
	case flags.Has(FlagHex):
		uimm := uint32(adjust(int64(imm), flags))
		return fmt.Sprintf("%s %s, %s, %#x", m, rd, rj, uimm)
	default:
		return fmt.Sprintf("%s %s, %s, %d", m, rd, rj, simm)
	}
}
