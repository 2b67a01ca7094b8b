package benchmarks

import (
	"bytes"
	"fmt"

	"github.com/sarchlab/chip8sim/emu"
)

// Microbenchmarks returns the standard set of CHIP-8 workloads. Each one
// isolates an instruction class and ends in a self-jump.
func Microbenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticLoop(),
		carryCounter(),
		functionCalls(),
		bcdDigits(),
		spriteDraw(),
		memoryCopy(),
		randomMix(),
	}
}

// GetMicrobenchmarks is an alias for Microbenchmarks.
func GetMicrobenchmarks() []Benchmark {
	return Microbenchmarks()
}

func expectReg(e *emu.Emulator, x, want uint8) error {
	if got := e.RegFile().ReadReg(x); got != want {
		return fmt.Errorf("V%X = %d, want %d", x, got, want)
	}
	return nil
}

// arithmeticLoop sums 1..200 into V1.
func arithmeticLoop() Benchmark {
	return Benchmark{
		Name:        "arithmetic_loop",
		Description: "200 iterations of immediate and register adds",
		Program: BuildProgram(
			EncodeLDImm(0, 0),    // 0x200
			EncodeLDImm(1, 0),    // 0x202
			EncodeADDImm(0, 1),   // 0x204 loop:
			EncodeALU(1, 0, 0x4), // 0x206 V1 += V0
			EncodeSEImm(0, 200),  // 0x208
			EncodeJP(0x204),      // 0x20A
			EncodeJP(0x20C),      // 0x20C halt
		),
		Check: func(e *emu.Emulator) error {
			if err := expectReg(e, 0, 200); err != nil {
				return err
			}
			// 20100 mod 256
			return expectReg(e, 1, 132)
		},
	}
}

// carryCounter increments a 16-bit counter held in V1:V0 to 0x0400.
func carryCounter() Benchmark {
	return Benchmark{
		Name:        "carry_counter",
		Description: "16-bit counter propagating VF carries",
		Program: BuildProgram(
			EncodeLDImm(0, 0),      // 0x200
			EncodeLDImm(1, 0),      // 0x202
			EncodeLDImm(2, 1),      // 0x204
			EncodeALU(0, 2, 0x4),   // 0x206 loop: V0 += 1
			EncodeALU(1, 0xF, 0x4), // 0x208 V1 += carry
			EncodeSEImm(1, 4),      // 0x20A
			EncodeJP(0x206),        // 0x20C
			EncodeJP(0x20E),        // 0x20E halt
		),
		Check: func(e *emu.Emulator) error {
			if err := expectReg(e, 0, 0); err != nil {
				return err
			}
			return expectReg(e, 1, 4)
		},
	}
}

// functionCalls makes 200 two-level nested calls.
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "200 nested CALL/RET pairs",
		Program: BuildProgram(
			EncodeLDImm(0, 0),   // 0x200
			EncodeLDImm(1, 0),   // 0x202
			EncodeCALL(0x210),   // 0x204 loop:
			EncodeADDImm(0, 1),  // 0x206
			EncodeSEImm(0, 200), // 0x208
			EncodeJP(0x204),     // 0x20A
			EncodeJP(0x20C),     // 0x20C halt
			0x0000,              // 0x20E
			EncodeCALL(0x216),   // 0x210 outer:
			EncodeRET(),         // 0x212
			0x0000,              // 0x214
			EncodeADDImm(1, 1),  // 0x216 inner:
			EncodeRET(),         // 0x218
		),
		Check: func(e *emu.Emulator) error {
			if depth := e.Stack().Depth(); depth != 0 {
				return fmt.Errorf("stack depth %d after halt", depth)
			}
			if err := expectReg(e, 0, 200); err != nil {
				return err
			}
			return expectReg(e, 1, 200)
		},
	}
}

// bcdDigits sums the decimal digits of every byte value into V4.
func bcdDigits() Benchmark {
	return Benchmark{
		Name:        "bcd_digits",
		Description: "BCD conversion and register loads for 0..255",
		Program: BuildProgram(
			EncodeLDImm(5, 0),    // 0x200
			EncodeLDImm(4, 0),    // 0x202
			EncodeLDI(0x300),     // 0x204
			EncodeMisc(5, 0x33),  // 0x206 loop: LD B, V5
			EncodeMisc(2, 0x65),  // 0x208 LD V2, [I]
			EncodeALU(4, 0, 0x4), // 0x20A
			EncodeALU(4, 1, 0x4), // 0x20C
			EncodeALU(4, 2, 0x4), // 0x20E
			EncodeADDImm(5, 1),   // 0x210
			EncodeSEImm(5, 0),    // 0x212
			EncodeJP(0x206),      // 0x214
			EncodeJP(0x216),      // 0x216 halt
		),
		Check: func(e *emu.Emulator) error {
			digits, err := e.Memory().Slice(0x300, 3)
			if err != nil {
				return err
			}
			if !bytes.Equal(digits, []byte{2, 5, 5}) {
				return fmt.Errorf("BCD of 255 = %v", digits)
			}
			// 2382 mod 256
			return expectReg(e, 4, 78)
		},
	}
}

// spriteDraw draws the 16 font glyphs along a diagonal. Every glyph owns
// its own four columns, so no draw collides.
func spriteDraw() Benchmark {
	return Benchmark{
		Name:        "sprite_draw",
		Description: "16 font glyph draws with vertical wrapping",
		Program: BuildProgram(
			EncodeLDImm(0, 0),   // 0x200
			EncodeLDImm(1, 0),   // 0x202
			EncodeLDImm(2, 0),   // 0x204
			EncodeMisc(2, 0x29), // 0x206 loop: LD F, V2
			EncodeDRW(0, 1, 5),  // 0x208
			EncodeADDImm(0, 4),  // 0x20A
			EncodeADDImm(1, 4),  // 0x20C
			EncodeADDImm(2, 1),  // 0x20E
			EncodeSEImm(2, 16),  // 0x210
			EncodeJP(0x206),     // 0x212
			EncodeJP(0x214),     // 0x214 halt
		),
		Check: func(e *emu.Emulator) error {
			if err := expectReg(e, 0xF, 0); err != nil {
				return err
			}
			if e.Display().Pixel(0, 0) != 1 || e.Display().Pixel(60, 28) != 1 {
				return fmt.Errorf("glyphs missing from the display")
			}
			return nil
		},
	}
}

// memoryCopy copies the font to 0x400 eight bytes at a time.
func memoryCopy() Benchmark {
	return Benchmark{
		Name:        "memory_copy",
		Description: "block copy of the font through Fx65/Fx55",
		Program: BuildProgram(
			EncodeLDImm(8, 0),        // 0x200 offset
			EncodeLDImm(9, 8),        // 0x202 step
			EncodeLDI(emu.FontStart), // 0x204 loop:
			EncodeMisc(8, 0x1E),      // 0x206 ADD I, V8
			EncodeMisc(7, 0x65),      // 0x208 LD V7, [I]
			EncodeLDI(0x400),         // 0x20A
			EncodeMisc(8, 0x1E),      // 0x20C
			EncodeMisc(7, 0x55),      // 0x20E LD [I], V7
			EncodeALU(8, 9, 0x4),     // 0x210
			EncodeSEImm(8, 80),       // 0x212
			EncodeJP(0x204),          // 0x214
			EncodeJP(0x216),          // 0x216 halt
		),
		Check: func(e *emu.Emulator) error {
			copied, err := e.Memory().Slice(0x400, emu.FontSize)
			if err != nil {
				return err
			}
			font := emu.Font()
			if !bytes.Equal(copied, font[:]) {
				return fmt.Errorf("font copy mismatch")
			}
			return nil
		},
	}
}

// randomMix accumulates 256 masked random bytes.
func randomMix() Benchmark {
	return Benchmark{
		Name:        "random_mix",
		Description: "256 RND draws accumulated with carries",
		Program: BuildProgram(
			EncodeLDImm(0, 0),    // 0x200
			EncodeLDImm(1, 0),    // 0x202
			EncodeRND(2, 0x0F),   // 0x204 loop:
			EncodeALU(1, 2, 0x4), // 0x206
			EncodeADDImm(0, 1),   // 0x208
			EncodeSEImm(0, 0),    // 0x20A
			EncodeJP(0x204),      // 0x20C
			EncodeJP(0x20E),      // 0x20E halt
		),
		Check: func(e *emu.Emulator) error {
			if v := e.RegFile().ReadReg(2); v > 0x0F {
				return fmt.Errorf("RND mask ignored: V2 = 0x%02X", v)
			}
			return expectReg(e, 0, 0)
		},
	}
}
