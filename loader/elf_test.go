package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ladisasm/loader"
)

const (
	emLoongArch = 258
	emX86_64    = 62
)

var _ = Describe("ELF Loader", func() {
	var tempDir string

	// lw a0, 1(sp); j +4
	code := []byte{
		0x64, 0x04, 0x80, 0x28,
		0x00, 0x10, 0x00, 0x50,
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "elf-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("with a valid LoongArch ELF binary", func() {
			var elfPath string

			BeforeEach(func() {
				elfPath = filepath.Join(tempDir, "test.elf")
				writeELF(elfPath, elfLayout{
					machine: emLoongArch,
					entry:   0x120000004,
					segs: []testSegment{
						{ptype: 1, flags: 0x5, vaddr: 0x120000000, data: code},
					},
				})
			})

			It("should load without error", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog).NotTo(BeNil())
			})

			It("should extract the correct entry point", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint64(0x120000004)))
			})

			It("should load the segment contents and flags", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(1))

				seg := prog.Segments[0]
				Expect(seg.VirtAddr).To(Equal(uint64(0x120000000)))
				Expect(seg.Data).To(Equal(code))
				Expect(seg.Flags & loader.SegmentFlagExecute).NotTo(BeZero())
				Expect(seg.Flags & loader.SegmentFlagRead).NotTo(BeZero())
				Expect(seg.Flags & loader.SegmentFlagWrite).To(BeZero())
				Expect(seg.End()).To(Equal(uint64(0x120000008)))
			})
		})

		Context("with an invalid file", func() {
			It("should return error for non-existent file", func() {
				_, err := loader.Load("/nonexistent/path/to/file.elf")
				Expect(err).To(MatchError(ContainSubstring("failed to open")))
			})

			It("should return error for non-ELF file", func() {
				notElfPath := filepath.Join(tempDir, "not-elf.bin")
				Expect(os.WriteFile(notElfPath, []byte("not an elf file"), 0644)).To(Succeed())

				_, err := loader.Load(notElfPath)
				Expect(err).To(MatchError(ContainSubstring("ELF")))
			})

			It("should return error for empty file", func() {
				emptyPath := filepath.Join(tempDir, "empty.elf")
				Expect(os.WriteFile(emptyPath, []byte{}, 0644)).To(Succeed())

				_, err := loader.Load(emptyPath)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with a foreign ELF", func() {
			It("should reject x86-64", func() {
				elfPath := filepath.Join(tempDir, "x86.elf")
				writeELF(elfPath, elfLayout{machine: emX86_64})

				_, err := loader.Load(elfPath)
				Expect(err).To(MatchError(ContainSubstring("not a LoongArch")))
			})

			It("should reject 32-bit ELF", func() {
				elfPath := filepath.Join(tempDir, "elf32.elf")
				createMinimal32BitELF(elfPath)

				_, err := loader.Load(elfPath)
				Expect(err).To(MatchError(ContainSubstring("not a 64-bit")))
			})

			It("should reject big-endian ELF", func() {
				elfPath := filepath.Join(tempDir, "be.elf")
				writeELF(elfPath, elfLayout{machine: emLoongArch, bigEndian: true})

				_, err := loader.Load(elfPath)
				Expect(err).To(MatchError(ContainSubstring("little-endian")))
			})
		})

		Context("with several segments", func() {
			It("should load code, data and BSS", func() {
				elfPath := filepath.Join(tempDir, "multi.elf")
				data := []byte{0x01, 0x02, 0x03, 0x04}
				writeELF(elfPath, elfLayout{
					machine: emLoongArch,
					entry:   0x400000,
					segs: []testSegment{
						{ptype: 1, flags: 0x5, vaddr: 0x400000, data: code},
						{ptype: 1, flags: 0x6, vaddr: 0x600000, data: data, memsz: 1024},
						{ptype: 4, flags: 0x4},
					},
				})

				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(2))

				Expect(prog.Segments[1].Data).To(Equal(data))
				Expect(prog.Segments[1].MemSize).To(Equal(uint64(1024)))
				Expect(prog.Segments[1].Flags & loader.SegmentFlagWrite).NotTo(BeZero())

				code := prog.CodeSegments()
				Expect(code).To(HaveLen(1))
				Expect(code[0].VirtAddr).To(Equal(uint64(0x400000)))
			})

			It("should return no segments without PT_LOAD", func() {
				elfPath := filepath.Join(tempDir, "no-load.elf")
				writeELF(elfPath, elfLayout{
					machine: emLoongArch,
					entry:   0x400000,
					segs:    []testSegment{{ptype: 4, flags: 0x4}},
				})

				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(BeEmpty())
				Expect(prog.CodeSegments()).To(BeEmpty())
				Expect(prog.EntryPoint).To(Equal(uint64(0x400000)))
			})
		})
	})

	Describe("LoadRaw", func() {
		It("should map the file at the base address", func() {
			rawPath := filepath.Join(tempDir, "code.bin")
			Expect(os.WriteFile(rawPath, code, 0644)).To(Succeed())

			prog, err := loader.LoadRaw(rawPath, 0x1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.EntryPoint).To(Equal(uint64(0x1000)))
			Expect(prog.CodeSegments()).To(HaveLen(1))
			Expect(prog.Segments[0].Data).To(Equal(code))
		})

		It("should report a missing file", func() {
			_, err := loader.LoadRaw(filepath.Join(tempDir, "missing.bin"), 0)
			Expect(err).To(MatchError(ContainSubstring("failed to read raw binary")))
		})
	})

	Describe("Program.Read", func() {
		var prog *loader.Program

		BeforeEach(func() {
			prog = &loader.Program{Segments: []loader.Segment{
				{VirtAddr: 0x1000, Data: []byte{1, 2, 3, 4}, MemSize: 8},
				{VirtAddr: 0x1008, Data: []byte{9, 9}, MemSize: 2},
			}}
		})

		It("should read inside a segment", func() {
			Expect(prog.Read(0x1001, 2)).To(Equal([]byte{2, 3}))
		})

		It("should zero-fill BSS and gaps", func() {
			Expect(prog.Read(0x1002, 8)).To(Equal([]byte{3, 4, 0, 0, 0, 0, 9, 9}))
		})

		It("should zero-fill unmapped memory", func() {
			Expect(prog.Read(0x0FFE, 4)).To(Equal([]byte{0, 0, 1, 2}))
			Expect(prog.Read(0x9000, 4)).To(Equal([]byte{0, 0, 0, 0}))
		})
	})
})

type testSegment struct {
	ptype uint32
	flags uint32
	vaddr uint64
	data  []byte
	memsz uint64
}

type elfLayout struct {
	machine   uint16
	entry     uint64
	bigEndian bool
	segs      []testSegment
}

// writeELF writes a minimal ELF64 executable with one program header per
// segment, followed by the segment data in order.
func writeELF(path string, layout elfLayout) {
	var bo binary.ByteOrder = binary.LittleEndian
	if layout.bigEndian {
		bo = binary.BigEndian
	}

	const ehsize, phentsize = 64, 56

	hdr := make([]byte, ehsize)
	copy(hdr[0:4], []byte{0x7f, 'E', 'L', 'F'})
	hdr[4] = 2 // 64-bit
	hdr[5] = 1 // little endian
	if layout.bigEndian {
		hdr[5] = 2
	}
	hdr[6] = 1                                       // version
	bo.PutUint16(hdr[16:18], 2)                      // executable
	bo.PutUint16(hdr[18:20], layout.machine)           // machine
	bo.PutUint32(hdr[20:24], 1)                      // version
	bo.PutUint64(hdr[24:32], layout.entry)             // entry
	bo.PutUint64(hdr[32:40], ehsize)                 // phoff
	bo.PutUint16(hdr[52:54], ehsize)                 // ehsize
	bo.PutUint16(hdr[54:56], phentsize)              // phentsize
	bo.PutUint16(hdr[56:58], uint16(len(layout.segs))) // phnum

	offset := uint64(ehsize + phentsize*len(layout.segs))
	var phdrs, payload []byte
	for _, seg := range layout.segs {
		memsz := seg.memsz
		if memsz == 0 {
			memsz = uint64(len(seg.data))
		}

		ph := make([]byte, phentsize)
		bo.PutUint32(ph[0:4], seg.ptype)
		bo.PutUint32(ph[4:8], seg.flags)
		bo.PutUint64(ph[8:16], offset)
		bo.PutUint64(ph[16:24], seg.vaddr)
		bo.PutUint64(ph[24:32], seg.vaddr)
		bo.PutUint64(ph[32:40], uint64(len(seg.data)))
		bo.PutUint64(ph[40:48], memsz)
		bo.PutUint64(ph[48:56], 0x1000)

		phdrs = append(phdrs, ph...)
		payload = append(payload, seg.data...)
		offset += uint64(len(seg.data))
	}

	file, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = file.Close() }()

	_, _ = file.Write(hdr)
	_, _ = file.Write(phdrs)
	_, _ = file.Write(payload)
}

// createMinimal32BitELF creates a minimal 32-bit ELF to test rejection.
func createMinimal32BitELF(path string) {
	elfHeader := make([]byte, 52)

	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 1                                     // 32-bit (ELFCLASS32)
	elfHeader[5] = 1                                     // little endian
	elfHeader[6] = 1                                     // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2)   // executable
	binary.LittleEndian.PutUint16(elfHeader[18:20], 258) // LoongArch (won't matter)
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)   // version

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
}
