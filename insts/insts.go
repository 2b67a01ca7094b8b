// Package insts provides CHIP-8 instruction definitions and decoding.
//
// This package decodes 16-bit CHIP-8 instruction words into structured
// instruction values. It supports the canonical instruction set:
//   - System: CLS, RET, SYS (ignored)
//   - Flow control: JP, JP V0, CALL and the conditional skips
//   - Register ALU: LD, ADD, OR, AND, XOR, SUB, SUBN, SHR, SHL, RND
//   - Index, memory, timer, keypad and display operations
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x6A2F) // LD VA, $2F
//	fmt.Printf("Op: %v, X: %d, KK: %#x\n", inst.Op, inst.X, inst.KK)
package insts
