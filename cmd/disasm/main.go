// Command disasm prints a linear disassembly of a CHIP-8 ROM image.
//
// Usage:
//
//	disasm [flags] <program.ch8>
//
// Flags:
//
//	-o  Write the listing to a file instead of stdout
//
// Every instruction word is decoded in order starting at 0x200; data
// embedded between instructions is decoded as if it were code.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/chip8sim/emu"
	"github.com/sarchlab/chip8sim/insts"
	"github.com/sarchlab/chip8sim/loader"
)

func main() {
	output := flag.String("o", "", "write the listing to a file instead of stdout")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: disasm [flags] <program.ch8>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	prog, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := disassemble(w, prog); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// disassemble writes the listing of prog to w.
func disassemble(w io.Writer, prog *loader.Program) error {
	bw := bufio.NewWriter(w)

	_, _ = fmt.Fprintf(bw, "; %s (%d bytes)\n", prog.Name, prog.Size())
	for _, line := range insts.NewDecoder().Disassemble(emu.ProgramStart, prog.Data) {
		_, _ = fmt.Fprintln(bw, line)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return nil
}
