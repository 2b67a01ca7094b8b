// Command benchmark runs the chip8sim benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv       Output results in CSV format (default: human-readable)
//	-json      Output results in JSON format
//	-no-cache  Disable fetch cache simulation
//	-seed      Seed for RND
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
//
// Every benchmark validates its final machine state, so a failing run
// exits non-zero.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/chip8sim/benchmarks"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	noCache := flag.Bool("no-cache", false, "Disable fetch cache simulation")
	seed := flag.Uint64("seed", 1, "Seed for RND")
	flag.Parse()

	// Configure harness
	config := benchmarks.DefaultConfig()
	config.EnableFetchCache = !*noCache
	config.Seed = *seed
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

	humanReadable := !*csvOutput && !*jsonOutput
	if humanReadable {
		fmt.Println("chip8sim Benchmark Harness")
		fmt.Println("==========================")
		fmt.Printf("Fetch cache: %v\n", config.EnableFetchCache)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d benchmarks failed\n", failed, len(results))
		os.Exit(1)
	}
}
