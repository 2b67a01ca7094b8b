package core_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/chip8sim/emu"
	"github.com/sarchlab/chip8sim/insts"
	"github.com/sarchlab/chip8sim/timing/cache"
	"github.com/sarchlab/chip8sim/timing/core"
	"github.com/sarchlab/chip8sim/timing/pacing"
)

type fetchRecorder struct {
	addrs []uint16
}

func (r *fetchRecorder) ObserveFetch(addr uint16) {
	r.addrs = append(r.addrs, addr)
}

type write struct {
	addr uint16
	n    int
}

type memoryRecorder struct {
	fetchRecorder
	writes []write
}

func (r *memoryRecorder) ObserveWrite(addr uint16, n int) {
	r.writes = append(r.writes, write{addr, n})
}

// selfModifying stores 0x1234 at 0x20C, inside its own first cache line.
var selfModifying = program(
	0x6012, // LD V0, $12
	0x6134, // LD V1, $34
	0xA20C, // LD I, $20C
	0xF155, // LD [I], V1
	0x1208, // JP $208
)

func program(words ...uint16) []byte {
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, byte(w>>8), byte(w))
	}
	return out
}

var _ = Describe("Core", func() {
	var (
		e      *emu.Emulator
		config *pacing.Config
		c      *core.Core
	)

	BeforeEach(func() {
		e = emu.NewEmulator(emu.WithSeed(1))
		config = pacing.DefaultConfig()
		config.InstructionsPerSecond = 600 // 10 per frame
		c = core.NewCore(e, config)
	})

	It("should run the configured number of instructions per frame", func() {
		Expect(e.LoadProgram(program(0x7001, 0x1200))).To(Succeed())

		result := c.RunFrame()

		Expect(result.Err).NotTo(HaveOccurred())
		Expect(e.InstructionCount()).To(Equal(uint64(10)))
		Expect(e.RegFile().ReadReg(0)).To(Equal(uint8(5)))
		Expect(c.Stats().Instructions).To(Equal(uint64(10)))
		Expect(c.Stats().OpCounts[insts.OpADDImm]).To(Equal(uint64(5)))
		Expect(c.Stats().OpCounts[insts.OpJP]).To(Equal(uint64(5)))
	})

	It("should tick timers once per frame at the default rates", func() {
		Expect(e.LoadProgram(program(0x6005, 0xF015, 0x1204))).To(Succeed())

		Expect(c.RunFrames(3)).To(Succeed())

		Expect(e.Timers().Delay).To(Equal(uint8(2)))
		Expect(c.Stats().TimerTicks).To(Equal(uint64(3)))
		Expect(c.Stats().Frames).To(Equal(uint64(3)))
	})

	It("should report a redraw after drawing", func() {
		Expect(e.LoadProgram(program(0xA000, 0xD015, 0x1204))).To(Succeed())
		e.Display().ClearDirty()

		result := c.RunFrame()

		Expect(result.Redraw).To(BeTrue())
		Expect(c.Stats().Draws).To(Equal(uint64(1)))
	})

	It("should report an active sound timer", func() {
		Expect(e.LoadProgram(program(0x6010, 0xF018, 0x1204))).To(Succeed())

		Expect(c.RunFrame().Sound).To(BeTrue())
	})

	It("should end the frame early while waiting for a key", func() {
		Expect(e.LoadProgram(program(0xF10A, 0x1202))).To(Succeed())

		result := c.RunFrame()
		Expect(result.WaitingForKey).To(BeTrue())
		Expect(c.Stats().WaitSteps).To(Equal(uint64(1)))

		e.Keypad().Press(4)
		result = c.RunFrame()
		Expect(result.WaitingForKey).To(BeFalse())
		Expect(e.RegFile().ReadReg(1)).To(Equal(uint8(4)))
	})

	It("should halt on the first error", func() {
		Expect(e.LoadProgram(program(0x6001, 0x00EE))).To(Succeed())

		result := c.RunFrame()

		Expect(errors.Is(result.Err, emu.ErrStackUnderflow)).To(BeTrue())
		Expect(c.Halted()).To(BeTrue())
		Expect(c.Stats().Instructions).To(Equal(uint64(1)))

		Expect(errors.Is(c.RunFrames(5), emu.ErrStackUnderflow)).To(BeTrue())
		Expect(c.Stats().Frames).To(Equal(uint64(1)))
	})

	It("should report fetch addresses to the observer", func() {
		recorder := &fetchRecorder{}
		c = core.NewCore(e, config, core.WithFetchObserver(recorder))
		Expect(e.LoadProgram(program(0x0000, 0x1200))).To(Succeed())

		c.RunFrame()

		Expect(recorder.addrs).To(HaveLen(10))
		Expect(recorder.addrs[:4]).To(Equal([]uint16{0x200, 0x202, 0x200, 0x202}))
	})

	It("should report program memory writes to an observer that accepts them", func() {
		recorder := &memoryRecorder{}
		c = core.NewCore(e, config, core.WithFetchObserver(recorder))
		Expect(e.LoadProgram(selfModifying)).To(Succeed())

		c.RunFrame()

		Expect(recorder.writes).To(Equal([]write{{addr: 0x20C, n: 2}}))
		Expect(recorder.addrs).NotTo(BeEmpty())
	})

	It("should report BCD stores as three byte writes", func() {
		recorder := &memoryRecorder{}
		c = core.NewCore(e, config, core.WithFetchObserver(recorder))
		Expect(e.LoadProgram(program(0xA300, 0xF033, 0x1204))).To(Succeed())

		c.RunFrame()

		Expect(recorder.writes).To(Equal([]write{{addr: 0x300, n: 3}}))
	})

	It("should keep the fetch cache coherent with self-modifying code", func() {
		fetchCache := cache.New(cache.DefaultFetchConfig(), cache.NewMemoryBacking(e.Memory()))
		c = core.NewCore(e, config, core.WithFetchObserver(fetchCache))
		Expect(e.LoadProgram(selfModifying)).To(Succeed())

		c.RunFrame()

		Expect(fetchCache.Read(0x20C, 2).Data).To(Equal(uint16(0x1234)))
	})

	It("should count branches and skips", func() {
		// SE V0, 0; LD V1, 1; CALL $208; JP $206; RET
		Expect(e.LoadProgram(program(0x3000, 0x6101, 0x2208, 0x1206, 0x00EE))).To(Succeed())

		c.RunFrame()

		stats := c.Stats()
		Expect(stats.Skips).To(Equal(uint64(1)))
		Expect(stats.Branches).To(Equal(uint64(9)))
	})

	It("should run exactly the default instruction rate over one second", func() {
		c = core.NewCore(e, pacing.DefaultConfig())
		Expect(e.LoadProgram(program(0x7001, 0x1200))).To(Succeed())

		Expect(c.RunFrames(60)).To(Succeed())

		Expect(c.Stats().Instructions).To(Equal(uint64(700)))
		Expect(c.Stats().TimerTicks).To(Equal(uint64(60)))
	})

	It("should return an independent copy of the statistics", func() {
		Expect(e.LoadProgram(program(0x1200))).To(Succeed())
		c.RunFrame()

		stats := c.Stats()
		stats.OpCounts[insts.OpJP] = 0

		Expect(c.Stats().OpCounts[insts.OpJP]).To(Equal(uint64(10)))
	})

	It("should clear statistics and the halted state on Reset", func() {
		Expect(e.LoadProgram(program(0x00EE))).To(Succeed())
		c.RunFrame()

		c.Reset()

		Expect(c.Halted()).To(BeFalse())
		Expect(c.Err()).NotTo(HaveOccurred())
		Expect(c.Stats().Frames).To(Equal(uint64(0)))
		Expect(c.Emulator()).To(BeIdenticalTo(e))
	})
})
