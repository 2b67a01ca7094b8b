package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/chip8sim/insts"
)

var _ = Describe("Disassembly", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	DescribeTable("instruction text",
		func(word uint16, expected string) {
			Expect(decoder.Decode(word).String()).To(Equal(expected))
		},
		Entry("CLS", uint16(0x00E0), "cls"),
		Entry("RET", uint16(0x00EE), "ret"),
		Entry("JP", uint16(0x1234), "jp $234"),
		Entry("JP V0", uint16(0xB234), "jp V0, $234"),
		Entry("CALL", uint16(0x2234), "call $234"),
		Entry("SE Vx, kk", uint16(0x3234), "se V2, $34"),
		Entry("SE Vx, Vy", uint16(0x5230), "se V2, V3"),
		Entry("SNE Vx, Vy", uint16(0x9230), "sne V2, V3"),
		Entry("LD I", uint16(0xA234), "ld I, $234"),
		Entry("ADD Vx, Vy", uint16(0x8234), "add V2, V3"),
		Entry("SHR", uint16(0x8236), "shr V2"),
		Entry("RND", uint16(0xC234), "rnd V2, $34"),
		Entry("DRW", uint16(0xD235), "drw V2, V3, $5"),
		Entry("SKNP", uint16(0xE2A1), "sknp V2"),
		Entry("LD Vx, K", uint16(0xF20A), "ld V2, K"),
		Entry("LD B", uint16(0xF233), "ld B, V2"),
		Entry("LD [I]", uint16(0xF255), "ld [I], V2"),
		Entry("ADD I", uint16(0xF21E), "add I, V2"),
		Entry("SYS", uint16(0x0123), "sys $123"),
		Entry("unknown", uint16(0xFFFF), "db $FF, $FF"),
	)

	It("should disassemble a program image with addresses", func() {
		lines := decoder.Disassemble(0x200, []byte{0x00, 0xE0, 0x12, 0x00, 0xAB})

		Expect(lines).To(Equal([]string{
			"$200  00E0  cls",
			"$202  1200  jp $200",
			"$204  AB    db $AB",
		}))
	})
})
