package term_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/chip8sim/emu"
	"github.com/sarchlab/chip8sim/frontend/term"
	"github.com/sarchlab/chip8sim/timing/core"
	"github.com/sarchlab/chip8sim/timing/pacing"
)

func program(words ...uint16) []byte {
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, byte(w>>8), byte(w))
	}
	return out
}

var _ = Describe("Keymap", func() {
	keymap := term.DefaultKeymap()

	DescribeTable("default layout",
		func(b byte, key uint8) {
			got, ok := keymap.Lookup(b)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(key))
		},
		Entry("1", byte('1'), uint8(0x1)),
		Entry("4", byte('4'), uint8(0xC)),
		Entry("q", byte('q'), uint8(0x4)),
		Entry("r", byte('r'), uint8(0xD)),
		Entry("s", byte('s'), uint8(0x8)),
		Entry("f", byte('f'), uint8(0xE)),
		Entry("z", byte('z'), uint8(0xA)),
		Entry("x", byte('x'), uint8(0x0)),
		Entry("v", byte('v'), uint8(0xF)),
		Entry("upper case", byte('W'), uint8(0x5)),
	)

	It("should cover all sixteen keys", func() {
		seen := map[uint8]bool{}
		for _, key := range keymap {
			seen[key] = true
		}
		Expect(seen).To(HaveLen(emu.NumKeys))
	})

	It("should not map other bytes", func() {
		_, ok := keymap.Lookup('p')
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("KeyLatch", func() {
	var (
		latch  *term.KeyLatch
		keypad *emu.Keypad
		start  time.Time
	)

	BeforeEach(func() {
		latch = term.NewKeyLatch(100 * time.Millisecond)
		keypad = &emu.Keypad{}
		start = time.Unix(1000, 0)
	})

	It("should hold a key until the hold time passes", func() {
		latch.Press(0xA, start)

		latch.Apply(keypad, start.Add(50*time.Millisecond))
		Expect(keypad.IsPressed(0xA)).To(BeTrue())

		latch.Apply(keypad, start.Add(100*time.Millisecond))
		Expect(keypad.IsPressed(0xA)).To(BeFalse())
	})

	It("should extend the hold on repeated reports", func() {
		latch.Press(3, start)
		latch.Press(3, start.Add(80*time.Millisecond))

		latch.Apply(keypad, start.Add(150*time.Millisecond))
		Expect(keypad.IsPressed(3)).To(BeTrue())
	})

	It("should make the newest key the last pressed", func() {
		latch.Press(1, start)
		latch.Apply(keypad, start)
		latch.Press(2, start)
		latch.Apply(keypad, start)

		key, ok := keypad.LastPressed()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(uint8(2)))
	})

	It("should ignore keys outside the keypad", func() {
		latch.Press(16, start)
		Expect(latch.Held(16, start)).To(BeFalse())
	})

	It("should release everything on Reset", func() {
		latch.Press(7, start)
		latch.Reset()
		Expect(latch.Held(7, start)).To(BeFalse())
	})
})

var _ = Describe("Renderer", func() {
	It("should combine two pixel rows per text row", func() {
		d := &emu.Display{}
		font := emu.Font()
		d.DrawSprite(0, 0, font[0:5])

		lines := strings.Split(term.Frame(d.Pixels()), "\r\n")

		Expect(lines).To(HaveLen(emu.DisplayHeight/2 + 1))
		Expect([]rune(lines[0])[:5]).To(Equal([]rune("█▀▀█ ")))
		Expect([]rune(lines[1])[:5]).To(Equal([]rune("█  █ ")))
		Expect([]rune(lines[2])[:5]).To(Equal([]rune("▀▀▀▀ ")))
		Expect([]rune(lines[0])).To(HaveLen(emu.DisplayWidth))
	})

	It("should home the cursor before each frame", func() {
		var out bytes.Buffer
		r := term.NewRenderer(&out)

		Expect(r.Draw(make([]uint8, emu.DisplayWidth*emu.DisplayHeight))).To(Succeed())

		Expect(out.String()).To(HavePrefix("\x1b[H"))
	})
})

var _ = Describe("Frontend", func() {
	var (
		e      *emu.Emulator
		config *pacing.Config
		c      *core.Core
		out    *bytes.Buffer
	)

	BeforeEach(func() {
		e = emu.NewEmulator(emu.WithSeed(1))
		config = pacing.DefaultConfig()
		config.FrameHz = 1000
		config.InstructionsPerSecond = 10000
		c = core.NewCore(e, config)
		out = &bytes.Buffer{}
	})

	It("should render frames until the frame limit", func() {
		Expect(e.LoadProgram(program(0xA000, 0xD015, 0x1204))).To(Succeed())
		f := term.NewFrontend(c, config, out, term.WithMaxFrames(5))

		Expect(f.Run(context.Background(), strings.NewReader(""))).To(Succeed())

		Expect(c.Stats().Frames).To(Equal(uint64(5)))
		Expect(out.String()).To(ContainSubstring("█▀▀█"))
	})

	It("should stop when Escape is pressed", func() {
		Expect(e.LoadProgram(program(0x1200))).To(Succeed())
		f := term.NewFrontend(c, config, out)

		Expect(f.Run(context.Background(), strings.NewReader("\x1b"))).To(Succeed())
	})

	It("should deliver mapped keys to the keypad", func() {
		Expect(e.LoadProgram(program(0xF00A, 0x1202))).To(Succeed())
		f := term.NewFrontend(c, config, out, term.WithMaxFrames(50))

		Expect(f.Run(context.Background(), strings.NewReader("w"))).To(Succeed())

		Expect(e.RegFile().ReadReg(0)).To(Equal(uint8(0x5)))
	})

	It("should return program errors", func() {
		Expect(e.LoadProgram(program(0x00EE))).To(Succeed())
		f := term.NewFrontend(c, config, out)

		err := f.Run(context.Background(), strings.NewReader(""))

		Expect(errors.Is(err, emu.ErrStackUnderflow)).To(BeTrue())
	})

	It("should stop when the context is cancelled", func() {
		Expect(e.LoadProgram(program(0x1200))).To(Succeed())
		f := term.NewFrontend(c, config, out)
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		Expect(f.Run(ctx, strings.NewReader(""))).To(Succeed())
	})
})
