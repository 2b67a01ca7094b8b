// Validate the decoder against the retrogolib CHIP-8 opcode table and
// measure decode allocations.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"

	"github.com/sarchlab/chip8sim/insts"
)

// lookup returns the table mnemonic for w, or "" if no opcode matches.
func lookup(w uint16) string {
	for _, op := range chip8.Opcodes[int(w>>12)] {
		if op.Info.Mask&w == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return ""
}

func main() {
	decoder := insts.NewDecoder()
	var inst insts.Instruction

	var matched, sys, onlyDecoder, onlyTable, mismatched int
	for w := 0; w <= 0xFFFF; w++ {
		word := uint16(w)
		decoder.DecodeInto(word, &inst)
		want := lookup(word)

		switch {
		case inst.Op == insts.OpSYS:
			sys++
		case inst.Op == insts.OpUnknown && want == "":
			matched++
		case inst.Op == insts.OpUnknown:
			onlyTable++
		case want == "":
			onlyDecoder++
			fmt.Printf("%04X: decoded as %q, not in table\n", word, inst.String())
		case inst.Mnemonic() != want:
			mismatched++
			fmt.Printf("%04X: decoded as %q, table says %q\n", word, inst.Mnemonic(), want)
		default:
			matched++
		}
	}

	fmt.Println("=== Decoder Cross-Check ===")
	fmt.Printf("Matching words:        %d\n", matched)
	fmt.Printf("SYS words (ignored):   %d\n", sys)
	fmt.Printf("Table-only words:      %d\n", onlyTable)
	fmt.Printf("Decoder-only words:    %d\n", onlyDecoder)
	fmt.Printf("Mnemonic mismatches:   %d\n", mismatched)

	// Warm up
	for i := 0; i < 1000; i++ {
		decoder.DecodeInto(0x6A2F, &inst)
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000
	for i := 0; i < iterations; i++ {
		decoder.DecodeInto(0x6A2F, &inst) // LD VA, $2F
		decoder.DecodeInto(0x8124, &inst) // ADD V1, V2
		decoder.DecodeInto(0xD015, &inst) // DRW V0, V1, 5
		decoder.DecodeInto(0xF233, &inst) // LD B, V2
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	decodes := iterations * 4
	fmt.Println("")
	fmt.Println("=== Decode Performance ===")
	fmt.Printf("Decodes:            %d\n", decodes)
	fmt.Printf("Time:               %v (%.1f ns/decode)\n", elapsed, float64(elapsed.Nanoseconds())/float64(decodes))
	fmt.Printf("Allocations:        %d\n", m2.Mallocs-m1.Mallocs)

	if onlyDecoder > 0 || mismatched > 0 {
		os.Exit(1)
	}
}
