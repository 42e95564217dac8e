package insts

import (
	"encoding/binary"
	"errors"
)

// DefaultBufferSize is the output capacity a host normally provides for one
// rendered instruction.
const DefaultBufferSize = 64

// ErrInsufficientInput is returned when fewer than InsnLength bytes are
// available.
var ErrInsufficientInput = errors.New("insufficient input: need 4 bytes")

// Disassemble decodes the little-endian instruction word at the start of b
// and renders it for address pc. It returns the text and the number of bytes
// consumed, which is always InsnLength on success, including for words no
// table entry recognises. With fewer than InsnLength bytes it returns
// n == -1 and ErrInsufficientInput.
func Disassemble(b []byte, pc uint64) (text string, n int, err error) {
	inst, n, err := decodeBytes(b)
	if err != nil {
		return "", n, err
	}
	return Render(inst, pc), n, nil
}

// DisassembleTo is Disassemble writing into dst. written is the number of
// bytes stored in dst; longer text is truncated at len(dst).
func DisassembleTo(dst, b []byte, pc uint64) (written, n int, err error) {
	inst, n, err := decodeBytes(b)
	if err != nil {
		return 0, n, err
	}
	return RenderTo(dst, inst, pc), n, nil
}

// DecodeBytes decodes the little-endian instruction word at the start of b.
func DecodeBytes(b []byte) (*Instruction, error) {
	inst, _, err := decodeBytes(b)
	return inst, err
}

func decodeBytes(b []byte) (*Instruction, int, error) {
	if len(b) < InsnLength {
		return nil, -1, ErrInsufficientInput
	}

	word := binary.LittleEndian.Uint32(b)
	decoder := Decoder{}
	return decoder.Decode(word), InsnLength, nil
}
