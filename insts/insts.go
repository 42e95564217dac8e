// Package insts provides LoongArch (LA64) instruction definitions and decoding.
//
// This package implements decoding of LoongArch machine code into structured
// instruction representations and renders them as assembly text. It supports:
//   - Integer arithmetic and logic: ADD, SUB, AND, OR, XOR, shifts, MUL
//   - Immediate forms: ADDI, SLTI, ANDI/ORI/XORI, AUI/AHI/AUIPC
//   - Loads and stores, including the scaled 14-bit offset forms
//   - Double-precision floating-point arithmetic
//   - Branches and jumps with PC-relative target resolution
//
// Words are recognised by an ordered match/mask table. A word that matches
// no entry is not an error: it decodes to FormatUnknown and renders as
// "??? xxxxxxxx".
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00108820) // add zero, ra, r2
//	fmt.Println(insts.Render(inst, 0x1000))
package insts
