// Package main provides the entry point for chip8sim.
// chip8sim is a CHIP-8 virtual machine with a terminal frontend and an
// Akita-backed fetch cache model.
//
// For the full CLI, use: go run ./cmd/chip8sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("chip8sim - CHIP-8 Virtual Machine")
	fmt.Println("")
	fmt.Println("Usage: chip8sim [options] <program.ch8>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -headless  Run without a terminal for a fixed number of frames")
	fmt.Println("  -config    Path to pacing configuration JSON file")
	fmt.Println("  -debug     Verbose output")
	fmt.Println("")
	fmt.Println("Other tools:")
	fmt.Println("  go run ./cmd/disasm     Disassemble a ROM image")
	fmt.Println("  go run ./cmd/benchmark  Run the benchmark harness")
	fmt.Println("  go run ./cmd/profile    Profile a ROM image")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/chip8sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/chip8sim' instead.")
	}
}
