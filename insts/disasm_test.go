package insts_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ladisasm/insts"
)

var _ = Describe("Disassemble", func() {
	It("should read a little-endian word", func() {
		// lw a0, 1(sp) -> 0x28800464
		text, n, err := insts.Disassemble([]byte{0x64, 0x04, 0x80, 0x28}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(4))
		Expect(text).To(Equal("lw a0, 1(sp)"))
	})

	It("should use pc for jump targets", func() {
		// j +4 -> 0x50001000
		text, n, err := insts.Disassemble([]byte{0x00, 0x10, 0x00, 0x50}, 0x1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(4))
		Expect(text).To(Equal("j 0x1010"))
	})

	It("should consume 4 bytes of an unknown word", func() {
		text, n, err := insts.Disassemble([]byte{0, 0, 0, 0}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(4))
		Expect(text).To(Equal("??? 00000000"))
	})

	It("should only look at the first word", func() {
		text, n, err := insts.Disassemble([]byte{0x64, 0x04, 0x80, 0x28, 0xff, 0xff}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(4))
		Expect(text).To(Equal("lw a0, 1(sp)"))
	})

	DescribeTable("rejecting short input",
		func(b []byte) {
			text, n, err := insts.Disassemble(b, 0)
			Expect(err).To(MatchError(insts.ErrInsufficientInput))
			Expect(n).To(Equal(-1))
			Expect(text).To(BeEmpty())

			_, err = insts.DecodeBytes(b)
			Expect(err).To(MatchError(insts.ErrInsufficientInput))
		},
		Entry("0 bytes", []byte{}),
		Entry("1 byte", []byte{0x64}),
		Entry("2 bytes", []byte{0x64, 0x04}),
		Entry("3 bytes", []byte{0x64, 0x04, 0x80}),
	)

	Describe("DisassembleTo", func() {
		It("should truncate into a small buffer", func() {
			dst := make([]byte, 4)
			written, n, err := insts.DisassembleTo(dst, []byte{0x64, 0x04, 0x80, 0x28}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(4))
			Expect(written).To(Equal(4))
			Expect(string(dst)).To(Equal("lw a"))
		})

		It("should report short input", func() {
			dst := make([]byte, insts.DefaultBufferSize)
			written, n, err := insts.DisassembleTo(dst, []byte{1, 2}, 0)
			Expect(err).To(MatchError(insts.ErrInsufficientInput))
			Expect(n).To(Equal(-1))
			Expect(written).To(Equal(0))
		})
	})

	It("should produce non-empty text for every opcode", func() {
		r := rand.New(rand.NewSource(42))
		buf := make([]byte, 4)
		for op := uint32(0); op < 64; op++ {
			for i := 0; i < 256; i++ {
				word := op<<26 | r.Uint32()&0x03FFFFFF
				buf[0] = byte(word)
				buf[1] = byte(word >> 8)
				buf[2] = byte(word >> 16)
				buf[3] = byte(word >> 24)

				text, n, err := insts.Disassemble(buf, r.Uint64())
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(4))
				Expect(text).NotTo(BeEmpty())
				Expect(len(text)).To(BeNumerically("<=", insts.DefaultBufferSize))
			}
		}
	})
})
