package insts

import "strings"

// RenderFlags is a set of independent rendering quirks attached to a table
// entry. FlagMinus32 and FlagShl2 apply to every printed immediate, bias
// first; a resolved jump target is computed from the raw offset.
type RenderFlags uint32

// Render flags.
const (
	FlagHex        RenderFlags = 1 << iota // print the immediate in hexadecimal
	FlagJumpOffset                         // immediate is a PC-relative offset in instructions
	FlagMinus32                            // subtract 32 from the raw immediate
	FlagShl2                               // immediate omits two implicit low zero bits
	FlagRdFPR                              // rd names a floating-point register
	FlagRjFPR                              // rj names a floating-point register
	FlagRkFPR                              // rk names a floating-point register
	FlagLoadStore                          // render as a memory operand offset(base)

	FlagFDJK = FlagRdFPR | FlagRjFPR | FlagRkFPR
)

var flagNames = []struct {
	flag RenderFlags
	name string
}{
	{FlagHex, "HEX"},
	{FlagJumpOffset, "JO"},
	{FlagMinus32, "M32"},
	{FlagShl2, "SHL2"},
	{FlagRdFPR, "FD"},
	{FlagRjFPR, "FJ"},
	{FlagRkFPR, "FK"},
	{FlagLoadStore, "LS"},
}

// Has reports whether all bits of f are set.
func (r RenderFlags) Has(f RenderFlags) bool {
	return r&f == f
}

func (r RenderFlags) String() string {
	if r == 0 {
		return "0"
	}
	var parts []string
	for _, fn := range flagNames {
		if r.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}
