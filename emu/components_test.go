package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/chip8sim/emu"
)

var _ = Describe("Memory", func() {
	var m *emu.Memory

	BeforeEach(func() {
		m = emu.NewMemory()
	})

	It("should read and write big-endian words", func() {
		Expect(m.Write16(0x300, 0x1234)).To(Succeed())

		Expect(m.Read8(0x300)).To(Equal(byte(0x12)))
		Expect(m.Read8(0x301)).To(Equal(byte(0x34)))
		Expect(m.Read16(0x300)).To(Equal(uint16(0x1234)))
	})

	It("should accept accesses that end at the last address", func() {
		Expect(m.Write8(emu.MaxAddress, 0x7F)).To(Succeed())
		Expect(m.Read16(emu.MaxAddress - 1)).To(Equal(uint16(0x007F)))
		Expect(m.CheckRange(0xFF0, 16)).To(Succeed())
	})

	It("should reject accesses past the last address", func() {
		_, err := m.Read8(0x1000)
		Expect(errors.Is(err, emu.ErrAddressOutOfRange)).To(BeTrue())

		_, err = m.Read16(emu.MaxAddress)
		Expect(errors.Is(err, emu.ErrAddressOutOfRange)).To(BeTrue())

		Expect(errors.Is(m.Write8(0xFFFF, 1), emu.ErrAddressOutOfRange)).To(BeTrue())
		Expect(errors.Is(m.CheckRange(0xFF0, 17), emu.ErrAddressOutOfRange)).To(BeTrue())
	})

	It("should treat empty ranges as valid", func() {
		Expect(m.CheckRange(0xFFFF, 0)).To(Succeed())

		data, err := m.Slice(0xFFFF, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(BeEmpty())
	})

	It("should restore the font on Reset", func() {
		Expect(m.Write8(0x000, 0x00)).To(Succeed())
		Expect(m.Write8(0x400, 0x55)).To(Succeed())

		m.Reset()

		Expect(m.Read8(0x000)).To(Equal(emu.Font()[0]))
		Expect(m.Read8(0x400)).To(Equal(byte(0)))
	})
})

var _ = Describe("Font", func() {
	It("should place each glyph five bytes apart", func() {
		for d := uint8(0); d < 16; d++ {
			Expect(emu.GlyphAddress(d)).To(Equal(uint16(d) * emu.GlyphSize))
		}
	})

	It("should encode 0 and F", func() {
		font := emu.Font()
		Expect(font[0:5]).To(Equal([]byte{0xF0, 0x90, 0x90, 0x90, 0xF0}))
		Expect(font[75:80]).To(Equal([]byte{0xF0, 0x80, 0xF0, 0x80, 0x80}))
	})

	It("should hand out copies that cannot change the font", func() {
		font := emu.Font()
		font[0] = 0x00

		Expect(emu.Font()[0]).To(Equal(byte(0xF0)))
		Expect(emu.NewMemory().Read8(emu.FontStart)).To(Equal(byte(0xF0)))
	})
})

var _ = Describe("Stack", func() {
	var s *emu.Stack

	BeforeEach(func() {
		s = &emu.Stack{}
	})

	It("should pop in reverse push order", func() {
		Expect(s.Push(0x202)).To(Succeed())
		Expect(s.Push(0x304)).To(Succeed())

		Expect(s.Entries()).To(Equal([]uint16{0x202, 0x304}))
		Expect(s.Pop()).To(Equal(uint16(0x304)))
		Expect(s.Pop()).To(Equal(uint16(0x202)))
		Expect(s.Depth()).To(Equal(0))
	})

	It("should fail to push past the maximum depth", func() {
		for i := 0; i < emu.StackDepth; i++ {
			Expect(s.Push(uint16(i))).To(Succeed())
		}

		err := s.Push(0x999)

		Expect(errors.Is(err, emu.ErrStackOverflow)).To(BeTrue())
		Expect(s.Depth()).To(Equal(emu.StackDepth))
	})

	It("should fail to pop an empty stack", func() {
		_, err := s.Pop()
		Expect(errors.Is(err, emu.ErrStackUnderflow)).To(BeTrue())
	})

	It("should empty on Reset", func() {
		Expect(s.Push(0x202)).To(Succeed())
		s.Reset()
		Expect(s.Depth()).To(Equal(0))
	})
})

var _ = Describe("Display", func() {
	var d *emu.Display

	BeforeEach(func() {
		d = &emu.Display{}
	})

	It("should wrap sprites vertically", func() {
		collision := d.DrawSprite(0, 31, []byte{0x80, 0x80})

		Expect(collision).To(BeFalse())
		Expect(d.Pixel(0, 31)).To(Equal(uint8(1)))
		Expect(d.Pixel(0, 0)).To(Equal(uint8(1)))
	})

	It("should report a collision only when a pixel turns off", func() {
		Expect(d.DrawSprite(0, 0, []byte{0xF0})).To(BeFalse())
		Expect(d.DrawSprite(4, 0, []byte{0xF0})).To(BeFalse())
		Expect(d.DrawSprite(2, 0, []byte{0x80})).To(BeTrue())
		Expect(d.Pixel(2, 0)).To(Equal(uint8(0)))
	})

	It("should raise the dirty flag on every draw", func() {
		d.DrawSprite(0, 0, []byte{})
		Expect(d.Dirty()).To(BeTrue())

		d.ClearDirty()
		Expect(d.Dirty()).To(BeFalse())
	})

	It("should wrap pixel coordinates on read", func() {
		d.DrawSprite(0, 0, []byte{0x80})
		Expect(d.Pixel(emu.DisplayWidth, emu.DisplayHeight)).To(Equal(uint8(1)))
		Expect(d.Pixel(-emu.DisplayWidth, 0)).To(Equal(uint8(1)))
	})

	It("should return a copy of the pixels", func() {
		pixels := d.Pixels()
		pixels[0] = 1
		Expect(d.Pixel(0, 0)).To(Equal(uint8(0)))
	})
})

var _ = Describe("Keypad", func() {
	var k *emu.Keypad

	BeforeEach(func() {
		k = &emu.Keypad{}
	})

	It("should track pressed keys", func() {
		k.Press(0xA)

		Expect(k.IsPressed(0xA)).To(BeTrue())
		Expect(k.IsPressed(0xB)).To(BeFalse())
		Expect(k.State()[0xA]).To(BeTrue())
	})

	It("should only use the low nibble when queried", func() {
		k.Press(0x3)
		Expect(k.IsPressed(0x13)).To(BeTrue())
	})

	It("should ignore keys outside the keypad", func() {
		k.Press(0x10)

		_, ok := k.LastPressed()
		Expect(ok).To(BeFalse())
		Expect(k.State()).To(Equal([emu.NumKeys]bool{}))
	})

	It("should remember the most recently pressed key", func() {
		k.Press(1)
		k.Press(9)

		key, ok := k.LastPressed()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(uint8(9)))
	})

	It("should fall back to another held key on release", func() {
		k.Press(1)
		k.Press(9)
		k.Release(9)

		key, ok := k.LastPressed()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(uint8(1)))

		k.Release(1)
		_, ok = k.LastPressed()
		Expect(ok).To(BeFalse())
	})

	It("should release every key", func() {
		k.Press(2)
		k.Press(4)
		k.ReleaseAll()

		Expect(k.IsPressed(2)).To(BeFalse())
		_, ok := k.LastPressed()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Timers", func() {
	It("should count down to zero and stop", func() {
		t := &emu.Timers{Delay: 1, Sound: 2}

		t.Tick()
		Expect(t.Delay).To(Equal(uint8(0)))
		Expect(t.SoundActive()).To(BeTrue())

		t.Tick()
		t.Tick()
		Expect(t.Delay).To(Equal(uint8(0)))
		Expect(t.Sound).To(Equal(uint8(0)))
		Expect(t.SoundActive()).To(BeFalse())
	})
})

var _ = Describe("RegFile", func() {
	It("should mask register indices to the low nibble", func() {
		r := &emu.RegFile{}
		r.WriteReg(0x12, 0x34)

		Expect(r.ReadReg(2)).To(Equal(uint8(0x34)))
	})

	It("should write VF as 0 or 1", func() {
		r := &emu.RegFile{}
		r.SetFlag(true)
		Expect(r.Flag()).To(Equal(uint8(1)))
		r.SetFlag(false)
		Expect(r.Flag()).To(Equal(uint8(0)))
	})
})

var _ = Describe("ExecError", func() {
	It("should format the faulting instruction and unwrap the cause", func() {
		err := &emu.ExecError{PC: 0x2A4, Word: 0x00EE, Err: emu.ErrStackUnderflow}

		Expect(err.Error()).To(Equal("instruction 00EE at PC=0x2A4: return with empty call stack"))
		Expect(errors.Is(err, emu.ErrStackUnderflow)).To(BeTrue())
	})
})
